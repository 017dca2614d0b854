package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/scenegraph/pkg/io"
	"github.com/matzehuels/scenegraph/pkg/scene"
	"github.com/matzehuels/scenegraph/pkg/transform"
)

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compute <file>",
		Short: "Print the global transform of every node",
		Long: `Compute loads a scene file (JSON or TOML), composes every node's local
transform with its ancestors' and prints the resulting global transforms.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			h, err := loadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				globals := h.GlobalTransforms()
				prog.done(fmt.Sprintf("Computed %d global transforms", len(globals)))
				return sgio.WriteGlobals(h.Root(), globals, cmd.OutOrStdout())
			}
			n := writeGlobalsTable(cmd.OutOrStdout(), h)
			prog.done(fmt.Sprintf("Computed %d global transforms", n))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a scene file forms a single rooted tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadScene(cmd.Context(), args[0])
			if err != nil {
				printError("%s is not a valid scene", args[0])
				return err
			}
			if err := h.Validate(); err != nil {
				printError("%s failed validation", args[0])
				return err
			}

			printSuccess("%s is a valid scene", args[0])
			printSceneSummary(h)
			return nil
		},
	}
}

// demoCommand creates the demo command, which builds the reference
// four-node scene in code.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		asJSON bool
		export string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build and print a small example scene",
		Long: `Demo builds a four-node scene:

  root
  ├── child1      (1, 0) @ 30°
  │   └── grandchild (0.5, 0.5) @ 45°
  └── child2      (0, 2) @ -15°

and prints the global transforms. Use --export to write it as a scene file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := demoScene(scene.WithLogger(loggerFromContext(cmd.Context())))
			if err != nil {
				return err
			}

			if export != "" {
				if err := sgio.ExportFile(sgio.FromHierarchy(h), export); err != nil {
					return err
				}
				printSuccess("Wrote demo scene")
				printFile(export)
				printRenderHint(export)
				return nil
			}

			if asJSON {
				return sgio.WriteGlobals(h.Root(), h.GlobalTransforms(), cmd.OutOrStdout())
			}
			writeGlobalsTable(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&export, "export", "", "write the demo scene to a .json or .toml file instead")
	return cmd
}

// demoScene builds the reference scene.
func demoScene(opts ...scene.Option) (*scene.Hierarchy[string], error) {
	h := scene.New("root", opts...)
	steps := []struct {
		child, parent string
		local         transform.Transform
	}{
		{"child1", "root", transform.New(1, 0, 30)},
		{"child2", "root", transform.New(0, 2, -15)},
		{"grandchild", "child1", transform.New(0.5, 0.5, 45)},
	}
	for _, s := range steps {
		if err := h.AddChild(s.child, s.parent, s.local); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// writeGlobalsTable prints nodes in pre-order with their local and global
// transforms, computed in the same walk, and returns the row count.
func writeGlobalsTable(w io.Writer, h *scene.Hierarchy[string]) int {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	var rows [][]string
	h.Walk(func(v scene.Visit[string]) bool {
		rows = append(rows, []string{
			strings.Repeat("  ", v.Depth) + v.ID,
			v.Local.String(),
			v.Global.String(),
		})
		return true
	})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Local", "Global").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			case col == 2:
				return cellStyle.Foreground(colorWhite)
			default:
				return cellStyle.Foreground(colorGray)
			}
		})

	fmt.Fprintln(w, t.Render())
	return len(rows)
}
