// Package pipeline renders scene hierarchies to artifacts through a cache.
//
// The CLI and the HTTP API share one [Runner] so that the lookup, render
// and store steps behave identically for both entry points.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Render(ctx, h, pipeline.Options{Formats: []string{"svg"}})
//	svg := res.Artifacts["svg"]
//
// The cache key is the hash of the DOT source plus the format, so any change
// to the hierarchy, its transforms or the label detail yields a new key.
package pipeline

import (
	"strings"

	"github.com/charmbracelet/log"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/render/nodelink"
)

// Options controls a render.
type Options struct {
	// Formats lists the outputs to produce (dot, svg, png). Empty means svg.
	Formats []string

	// Detailed adds local and global transforms to node labels.
	Detailed bool

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool

	// Progress, when set, is called before each format is drawn. It is not
	// called for artifacts served from the cache.
	Progress func(format string, n, total int)

	Logger *log.Logger
}

// Result holds the outcome of a render.
type Result struct {
	DOT       string
	DOTHash   string
	Artifacts map[string][]byte

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// ValidateAndSetDefaults normalises formats to lower case, removes
// duplicates and rejects unknown formats.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{nodelink.FormatSVG}
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := scerrors.ValidateFormat(f, nodelink.Formats); err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{nodelink.FormatSVG}
	}
	return strings.Split(s, ",")
}
