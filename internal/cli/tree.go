package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/envirekit/framegraph/pkg/framegraph"
	"github.com/envirekit/framegraph/pkg/framegraph/tree"
)

// Tree output styles.
var (
	styleRoot   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleBranch = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCross  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// treeCommand creates the tree command for printing a tree view.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		rootName string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "tree [scene.toml]",
		Short: "Print the BFS tree view of a scene",
		Long: `Print the breadth-first tree view of a scene.

The tree is rooted at --root (default: the first declared frame).
Edges whose target was already discovered through another path are
listed separately as cross edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, v, err := c.loadView(args[0], rootName)
			if err != nil {
				return err
			}
			if asJSON {
				return printTreeJSON(cmd, g, v)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTreeText(g, v))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootName, "root", "r", "", "root frame name (default: first declared frame)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled text")

	return cmd
}

// renderTreeText renders the view as an indented unicode tree followed
// by the cross-edge list.
func renderTreeText(g *framegraph.Graph, v *tree.View) string {
	var b strings.Builder

	rootFrame, err := g.Frame(v.Root())
	if err != nil {
		return ""
	}
	b.WriteString(styleRoot.Render(rootFrame.Name))
	b.WriteString("\n")
	writeSubtree(g, v, v.Root(), "", &b)

	cross := v.CrossEdges()
	if len(cross) > 0 {
		b.WriteString("\n")
		b.WriteString(styleCross.Render(fmt.Sprintf("cross edges (%d):", len(cross))))
		b.WriteString("\n")
		for _, e := range cross {
			from, to, ok := edgeNames(g, e)
			if !ok {
				continue
			}
			b.WriteString(styleCross.Render(fmt.Sprintf("  %s -> %s", from, to)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// writeSubtree appends ref's tree children, recursing depth-first.
// Children print in the parent's out-edge order, which keeps the
// output deterministic for a fixed scene.
func writeSubtree(g *framegraph.Graph, v *tree.View, ref framegraph.FrameRef, prefix string, b *strings.Builder) {
	children := orderedChildren(g, v, ref)
	for i, child := range children {
		branch, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			branch, childPrefix = "└── ", prefix+"    "
		}
		f, err := g.Frame(child)
		if err != nil {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(styleBranch.Render(branch))
		b.WriteString(f.Name)
		b.WriteString("\n")
		writeSubtree(g, v, child, childPrefix, b)
	}
}

// orderedChildren returns ref's tree children in out-edge order.
func orderedChildren(g *framegraph.Graph, v *tree.View, ref framegraph.FrameRef) []framegraph.FrameRef {
	out, err := g.OutEdges(ref)
	if err != nil {
		return nil
	}
	kids, err := v.Children(ref)
	if err != nil {
		return nil
	}
	ordered := make([]framegraph.FrameRef, 0, len(kids))
	for _, e := range out {
		target, err := g.Target(e)
		if err != nil {
			continue
		}
		if _, ok := kids[target]; ok {
			ordered = append(ordered, target)
		}
	}
	return ordered
}

func edgeNames(g *framegraph.Graph, e framegraph.EdgeRef) (string, string, bool) {
	src, err1 := g.Source(e)
	dst, err2 := g.Target(e)
	if err1 != nil || err2 != nil {
		return "", "", false
	}
	sf, err1 := g.Frame(src)
	df, err2 := g.Frame(dst)
	if err1 != nil || err2 != nil {
		return "", "", false
	}
	return sf.Name, df.Name, true
}

// treeNodeJSON is one relation entry of the JSON output.
type treeNodeJSON struct {
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children"`
}

// treeDocJSON is the JSON output shape of the tree command.
type treeDocJSON struct {
	Root       string                  `json:"root"`
	Frames     map[string]treeNodeJSON `json:"frames"`
	CrossEdges [][2]string             `json:"cross_edges"`
}

func printTreeJSON(cmd *cobra.Command, g *framegraph.Graph, v *tree.View) error {
	rootFrame, err := g.Frame(v.Root())
	if err != nil {
		return err
	}
	doc := treeDocJSON{
		Root:       rootFrame.Name,
		Frames:     make(map[string]treeNodeJSON, v.Len()),
		CrossEdges: [][2]string{},
	}
	for _, ref := range v.Frames() {
		f, err := g.Frame(ref)
		if err != nil {
			continue
		}
		node := treeNodeJSON{Children: []string{}}
		if parent, _ := v.Parent(ref); !parent.IsNil() {
			pf, _ := g.Frame(parent)
			node.Parent = pf.Name
		}
		for _, child := range orderedChildren(g, v, ref) {
			cf, _ := g.Frame(child)
			node.Children = append(node.Children, cf.Name)
		}
		doc.Frames[f.Name] = node
	}
	for _, e := range v.CrossEdges() {
		from, to, ok := edgeNames(g, e)
		if ok {
			doc.CrossEdges = append(doc.CrossEdges, [2]string{from, to})
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
