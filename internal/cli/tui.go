package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegraph/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Explore a scene interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewSceneBrowserModel(h), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// SceneBrowserModel - interactive hierarchy browser
// =============================================================================

// browserRow is one visible line of the tree.
type browserRow struct {
	visit    scene.Visit[string]
	children int
}

// SceneBrowserModel is the bubbletea model for the tree browser. Rows are
// the hierarchy in pre-order; collapsed nodes hide their descendants.
type SceneBrowserModel struct {
	all       []browserRow
	collapsed map[string]bool
	visible   []int
	Cursor    int
	Offset    int
	Height    int
}

// NewSceneBrowserModel creates a browser over h. Global transforms are
// computed once up front.
func NewSceneBrowserModel(h *scene.Hierarchy[string]) SceneBrowserModel {
	m := SceneBrowserModel{collapsed: make(map[string]bool), Height: 15}
	h.Walk(func(v scene.Visit[string]) bool {
		m.all = append(m.all, browserRow{visit: v, children: len(h.Children(v.ID))})
		return true
	})
	m.refresh()
	return m
}

// refresh recomputes the visible rows after a collapse or expand.
func (m *SceneBrowserModel) refresh() {
	visible := make([]int, 0, len(m.all))
	hideBelow := -1
	for i, r := range m.all {
		if hideBelow >= 0 && r.visit.Depth > hideBelow {
			continue
		}
		hideBelow = -1
		visible = append(visible, i)
		if m.collapsed[r.visit.ID] {
			hideBelow = r.visit.Depth
		}
	}
	m.visible = visible
	if m.Cursor >= len(m.visible) {
		m.Cursor = len(m.visible) - 1
	}
}

// Selected returns the row under the cursor.
func (m SceneBrowserModel) Selected() scene.Visit[string] {
	return m.all[m.visible[m.Cursor]].visit
}

func (m SceneBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SceneBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
			}
		case "left", "h":
			if row := m.all[m.visible[m.Cursor]]; row.children > 0 {
				m.collapsed = cloneSet(m.collapsed)
				m.collapsed[row.visit.ID] = true
				m.refresh()
			}
		case "right", "l", "enter":
			id := m.all[m.visible[m.Cursor]].visit.ID
			if m.collapsed[id] {
				m.collapsed = cloneSet(m.collapsed)
				delete(m.collapsed, id)
				m.refresh()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m SceneBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scene"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ collapse/expand  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	for i := m.Offset; i < end; i++ {
		row := m.all[m.visible[i]]

		marker := "  "
		switch {
		case row.children == 0:
		case m.collapsed[row.visit.ID]:
			marker = "▸ "
		default:
			marker = "▾ "
		}
		line := strings.Repeat("  ", row.visit.Depth) + marker + row.visit.ID

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	sel := m.Selected()
	parent := sel.Parent
	if sel.Depth == 0 {
		parent = "—"
	}
	detail := fmt.Sprintf("%s\nparent  %s\nlocal   %s\nglobal  %s",
		StyleHighlight.Render(sel.ID), parent, sel.Local, StyleValue.Render(sel.Global.String()))
	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(detail))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}
