package cache

import (
	"context"
	"time"
)

// NullCache disables artifact caching: lookups always miss and writes are
// dropped, so every render goes through Graphviz. Used for --no-cache and
// as the pipeline runner's default.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
