package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey returns the key for a rendered artifact. dotHash is the
// [Hash] of the DOT source; format is compared case-insensitively.
func ArtifactKey(dotHash, format string) string {
	return hashKey("artifact", dotHash, strings.ToLower(format))
}

// Keyer derives artifact cache keys.
type Keyer interface {
	ArtifactKey(dotHash, format string) string
}

// DefaultKeyer produces unprefixed keys.
var DefaultKeyer Keyer = Scoped("")

// Scoped prefixes every key produced by [ArtifactKey], so that several
// consumers can share one backend without colliding.
//
//	api := cache.Scoped("api:")
//	key := api.ArtifactKey(cache.Hash(dot), "svg") // "api:artifact:..."
type Scoped string

// ArtifactKey returns the prefixed artifact key.
func (s Scoped) ArtifactKey(dotHash, format string) string {
	return string(s) + ArtifactKey(dotHash, format)
}

var _ Keyer = Scoped("")
