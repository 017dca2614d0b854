package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/scenegraph/pkg/scene"
)

var (
	colorCyan   = lipgloss.Color("36")  // node IDs, spinner
	colorGreen  = lipgloss.Color("35")  // success, cached
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorWhite  = lipgloss.Color("255") // global transforms
	colorGray   = lipgloss.Color("245") // local transforms, labels
	colorDim    = lipgloss.Color("240") // borders, hints
)

var (
	// StyleTitle for the browser heading.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for node IDs.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for computed values such as global transforms.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel  = lipgloss.NewStyle().Foreground(colorGray).Width(8)
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render("!") + " " + styleIconWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render("›") + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printSceneSummary prints the shape of a validated hierarchy.
func printSceneSummary(h *scene.Hierarchy[string]) {
	rows := [][2]string{
		{"Root", StyleHighlight.Render(h.Root())},
		{"Nodes", strconv.Itoa(h.Len())},
		{"Edges", strconv.Itoa(h.Len() - 1)},
		{"Depth", strconv.Itoa(depth(h))},
	}
	for _, r := range rows {
		fmt.Println("  " + styleLabel.Render(r[0]) + " " + r[1])
	}
}

// printStats prints node count, depth and cache status on one line,
// e.g. "4 nodes · depth 2 · cached".
func printStats(nodeCount, depth int, cached bool) {
	status := StyleDim.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)),
		StyleDim.Render(fmt.Sprintf("depth %d", depth)),
		status,
	}, sep))
}

// printRenderHint suggests rendering a scene file that was just written.
func printRenderHint(path string) {
	fmt.Println(StyleDim.Render("Render it:") + " " + StyleHighlight.Render(appName+" render "+path))
}
