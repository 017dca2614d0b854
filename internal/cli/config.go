package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/scenegraph/pkg/cache"
)

// Config is the optional TOML configuration file. Command-line flags take
// precedence over values read from it.
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "scenegraph"
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//	disabled = false
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig configures "scenegraph serve".
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
	Disabled  bool     `toml:"disabled"`
}

// duration decodes TOML strings such as "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const (
	defaultAddr          = ":8080"
	defaultMongoDatabase = appName
)

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: defaultAddr, MongoDatabase: defaultMongoDatabase},
		Cache:  CacheConfig{TTL: duration{cache.DefaultTTL}},
	}
}

// loadConfig reads path over the defaults. An empty path means the
// default location, which may be absent; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.MongoDatabase == "" {
		cfg.Server.MongoDatabase = defaultMongoDatabase
	}
	if cfg.Cache.TTL.Duration <= 0 {
		cfg.Cache.TTL = duration{cache.DefaultTTL}
	}
	return cfg, nil
}

// defaultConfigPath returns $XDG_CONFIG_HOME/scenegraph/config.toml,
// falling back to ~/.config.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
