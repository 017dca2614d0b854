package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenegraph/pkg/cache"
	"github.com/matzehuels/scenegraph/pkg/render/nodelink"
	"github.com/matzehuels/scenegraph/pkg/scene"
)

// Runner encapsulates rendering with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner as long as the cache backend is
// safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, cache.DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.DefaultKeyer
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Render converts h to DOT and renders every requested format.
func (r *Runner) Render(ctx context.Context, h *scene.Hierarchy[string], opts Options) (*Result, error) {
	dot := nodelink.ToDOT(h, nodelink.Options{Detailed: opts.Detailed})
	return r.RenderDOT(ctx, dot, opts)
}

// RenderDOT renders an existing DOT source. When every format is cached
// the result is served from the cache; otherwise all formats are rendered
// and stored.
func (r *Runner) RenderDOT(ctx context.Context, dot string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	res := &Result{
		DOT:       dot,
		DOTHash:   cache.Hash([]byte(dot)),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(res.DOTHash, format))
			if err != nil || !hit {
				break
			}
			res.Artifacts[format] = data
		}
		if len(res.Artifacts) == len(opts.Formats) {
			logger.Debug("artifacts served from cache", "hash", res.DOTHash[:12], "formats", opts.Formats)
			res.CacheHit = true
			return res, nil
		}
		clear(res.Artifacts)
	}

	for i, format := range opts.Formats {
		if opts.Progress != nil {
			opts.Progress(format, i+1, len(opts.Formats))
		}
		start := time.Now()
		data, err := nodelink.Render(ctx, dot, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		logger.Debug("rendered artifact", "format", format, "bytes", len(data), "took", time.Since(start).Round(time.Millisecond))
		res.Artifacts[format] = data

		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(res.DOTHash, format), data, r.TTL); err != nil {
			logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
