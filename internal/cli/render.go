package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/pipeline"
	"github.com/matzehuels/scenegraph/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "svg", "png", "dot"
	detailed bool     // include local and global transforms in labels
	noCache  bool     // bypass the artifact cache
	refresh  bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a scene as a node-link diagram",
		Long: `Render draws the scene tree with Graphviz. Rendered artifacts are cached
by the hash of their DOT source, so re-rendering an unchanged scene is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if opts.output != "" {
				if err := scerrors.ValidatePath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show local and global transforms on each node")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	h, err := loadScene(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newRenderSpinner(ctx, os.Stderr, filepath.Base(input))
	spinner.Start()
	res, err := runner.Render(ctx, h, pipeline.Options{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Progress: spinner.progress,
		Logger:   logger,
	})
	if err != nil {
		spinner.StopWithError(err)
		return err
	}

	paths := outputPaths(opts.output, input, sortedFormats(res.Artifacts))
	for format, path := range paths {
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			err = fmt.Errorf("write %s: %w", path, err)
			spinner.StopWithError(err)
			return err
		}
	}

	spinner.StopWithSuccess(res.CacheHit)
	printStats(h.Len(), depth(h), res.CacheHit)
	for _, format := range sortedFormats(res.Artifacts) {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format writes
// to output as given; several formats share a base path and differ by
// extension. Without output, paths derive from the input file.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, .dot), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(nodelink.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
