package cli

import (
	"context"
	"fmt"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	sgio "github.com/matzehuels/scenegraph/pkg/io"
	"github.com/matzehuels/scenegraph/pkg/observability"
	"github.com/matzehuels/scenegraph/pkg/scene"
)

// loadScene reads a scene file and builds its hierarchy.
func loadScene(ctx context.Context, path string) (*scene.Hierarchy[string], error) {
	logger := loggerFromContext(ctx)

	if err := scerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	doc, err := sgio.ImportFile(path)
	if err != nil {
		return nil, err
	}
	h, err := sgio.Build(doc, scene.WithLogger(logger), scene.WithHooks(observability.Scene()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("loaded scene", "file", path, "nodes", h.Len())
	return h, nil
}

// depth returns the length of the longest root-to-leaf path.
func depth(h *scene.Hierarchy[string]) int {
	d := 0
	h.Walk(func(v scene.Visit[string]) bool {
		if v.Depth > d {
			d = v.Depth
		}
		return true
	})
	return d
}
