// Package dot renders a frame graph, optionally overlaid with a tree
// view, as Graphviz DOT and SVG.
//
// With a view supplied, spanning-tree edges render solid, cross edges
// dashed, and edges outside the view greyed out, which makes the
// BFS-derived structure visible at a glance.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/envirekit/framegraph/pkg/framegraph"
	"github.com/envirekit/framegraph/pkg/framegraph/tree"
)

// Options configures DOT output.
type Options struct {
	// Detailed includes frame UUIDs in node labels.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format. If view is non-nil,
// its structure styles the output: the root gets a double border, tree
// edges stay solid, cross edges render dashed, and frames or edges
// outside the view are dimmed.
func ToDOT(g *framegraph.Graph, view *tree.View, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph frames {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, ref := range g.Frames() {
		f, err := g.Frame(ref)
		if err != nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", f.Name, nodeAttrs(f, ref, view, opts))
	}

	buf.WriteString("\n")

	crossSet := map[framegraph.EdgeRef]bool{}
	if view != nil {
		for _, e := range view.CrossEdges() {
			crossSet[e] = true
		}
	}

	for _, e := range g.Edges() {
		src, err1 := g.Source(e)
		dst, err2 := g.Target(e)
		if err1 != nil || err2 != nil {
			continue
		}
		sf, _ := g.Frame(src)
		df, _ := g.Frame(dst)
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", sf.Name, df.Name, edgeAttrs(e, src, dst, view, crossSet))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(f *framegraph.Frame, ref framegraph.FrameRef, view *tree.View, opts Options) string {
	label := f.Name
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s", f.Name, f.ID)
	}
	attrs := fmt.Sprintf("label=%q", label)

	if view == nil {
		return attrs
	}
	if !view.Contains(ref) {
		return attrs + `, fillcolor=lightgrey, fontcolor=grey40`
	}
	if isRoot, _ := view.IsRoot(ref); isRoot {
		return attrs + `, peripheries=2`
	}
	return attrs
}

func edgeAttrs(e framegraph.EdgeRef, src, dst framegraph.FrameRef, view *tree.View, crossSet map[framegraph.EdgeRef]bool) string {
	if view == nil {
		return ""
	}
	if crossSet[e] {
		return ` [style=dashed, color=grey50]`
	}
	if view.Contains(src) && view.Contains(dst) {
		return "" // tree edge
	}
	return ` [color=grey70]`
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
