package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/envirekit/framegraph/pkg/framegraph"
	"github.com/envirekit/framegraph/pkg/framegraph/tree"
)

// Browse styles
var (
	browseTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	browseNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	browseDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	browseCrossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// browseCommand creates the browse command for interactive tree navigation.
func (c *CLI) browseCommand() *cobra.Command {
	var rootName string

	cmd := &cobra.Command{
		Use:   "browse [scene.toml]",
		Short: "Browse a scene's tree view interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, v, err := c.loadView(args[0], rootName)
			if err != nil {
				return err
			}

			m := newBrowseModel(g, v)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&rootName, "root", "r", "", "root frame (defaults to first declared frame)")

	return cmd
}

// =============================================================================
// browseModel - Interactive frame navigation
// =============================================================================

// browseModel is the bubbletea model for walking a tree view frame by frame.
// The cursor selects among the current frame's children; enter descends,
// backspace ascends to the parent.
type browseModel struct {
	g       *framegraph.Graph
	view    *tree.View
	current framegraph.FrameRef
	cursor  int
}

func newBrowseModel(g *framegraph.Graph, v *tree.View) browseModel {
	return browseModel{g: g, view: v, current: v.Root()}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) children() []framegraph.FrameRef {
	return m.childrenOf(m.current)
}

// childrenOf flattens the child set into a slice sorted by frame name
// so the cursor position is stable across redraws.
func (m browseModel) childrenOf(ref framegraph.FrameRef) []framegraph.FrameRef {
	set, err := m.view.Children(ref)
	if err != nil {
		return nil
	}
	kids := make([]framegraph.FrameRef, 0, len(set))
	for k := range set {
		kids = append(kids, k)
	}
	sort.Slice(kids, func(i, j int) bool {
		return m.frameName(kids[i]) < m.frameName(kids[j])
	})
	return kids
}

func (m browseModel) frameName(ref framegraph.FrameRef) string {
	f, err := m.g.Frame(ref)
	if err != nil {
		return ref.String()
	}
	return f.Name
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.children())-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			kids := m.children()
			if m.cursor < len(kids) {
				m.current = kids[m.cursor]
				m.cursor = 0
			}
		case "backspace", "left", "h":
			if parent, err := m.view.Parent(m.current); err == nil && !parent.IsNil() {
				prev := m.current
				m.current = parent
				m.cursor = 0
				for i, k := range m.children() {
					if k == prev {
						m.cursor = i
					}
				}
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(browseTitleStyle.Render("Frame Browser"))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ⏎ descend  ⌫ parent  q quit"))
	b.WriteString("\n\n")

	b.WriteString(browseNormalStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	kids := m.children()
	if len(kids) == 0 {
		b.WriteString(browseDimStyle.Render("  (leaf frame)"))
		b.WriteString("\n")
	}
	for i, k := range kids {
		cursor := "  "
		style := browseNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = browseSelectedStyle
		}
		line := fmt.Sprintf("%s%s", cursor, m.frameName(k))
		if n := m.subtreeChildCount(k); n > 0 {
			line += browseDimStyle.Render(fmt.Sprintf("  (%d)", n))
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if cross := m.crossEdgesAt(m.current); len(cross) > 0 {
		b.WriteString("\n")
		b.WriteString(browseCrossStyle.Render("cross edges: " + strings.Join(cross, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

// breadcrumb renders the path from the view root down to the current frame.
func (m browseModel) breadcrumb() string {
	var names []string
	for ref := m.current; !ref.IsNil(); {
		names = append(names, m.frameName(ref))
		parent, err := m.view.Parent(ref)
		if err != nil {
			break
		}
		ref = parent
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " / ")
}

func (m browseModel) subtreeChildCount(ref framegraph.FrameRef) int {
	set, err := m.view.Children(ref)
	if err != nil {
		return 0
	}
	return len(set)
}

// crossEdgesAt lists cross edges whose source is the given frame.
func (m browseModel) crossEdgesAt(ref framegraph.FrameRef) []string {
	var out []string
	for _, e := range m.view.CrossEdges() {
		from, err := m.g.Source(e)
		if err != nil || from != ref {
			continue
		}
		to, err := m.g.Target(e)
		if err != nil {
			continue
		}
		out = append(out, fmt.Sprintf("%s → %s", m.frameName(from), m.frameName(to)))
	}
	return out
}
