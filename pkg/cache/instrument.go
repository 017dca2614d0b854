package cache

import (
	"context"
	"time"

	"github.com/matzehuels/scenegraph/pkg/observability"
)

type instrumented struct {
	Cache
	keyType string
	hooks   observability.CacheHooks
}

// Instrument wraps c so that every Get reports a hit or miss and every
// successful Set reports its size. keyType labels the events, e.g. "artifact".
// A nil hooks value uses observability.Cache().
func Instrument(c Cache, keyType string, hooks observability.CacheHooks) Cache {
	if hooks == nil {
		hooks = observability.Cache()
	}
	return &instrumented{Cache: c, keyType: keyType, hooks: hooks}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		c.hooks.OnCacheHit(ctx, c.keyType)
	} else {
		c.hooks.OnCacheMiss(ctx, c.keyType)
	}
	return data, hit, nil
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	c.hooks.OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
