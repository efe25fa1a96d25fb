package tree

import (
	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/framegraph"
)

// Build constructs a static (unsubscribed) tree view of g rooted at
// root. The view is a breadth-first spanning tree of the subgraph
// reachable from root: every reachable frame appears exactly once in
// the relation map, and every examined edge whose target was already
// discovered is recorded as a cross edge.
//
// Traversal is deterministic: frames are dequeued in discovery order
// and each frame's outgoing edges are examined in the store's
// insertion order (see framegraph.Graph.OutEdges). Cross-edge
// classification depends on this order when several edges target the
// same frame. A self-loop is always a cross edge, since a frame is
// discovered before its own out-edges are scanned.
//
// Returns ErrCodeFrameNotFound if root is stale or unknown.
// Complexity is O(V+E) over the reachable subgraph.
func Build(g *framegraph.Graph, root framegraph.FrameRef) (*View, error) {
	if !g.HasFrame(root) {
		return nil, errors.New(errors.ErrCodeFrameNotFound, "tree root %s not in graph", root)
	}
	relations, cross := traverse(g, root)
	return &View{root: root, tree: relations, crossEdges: cross}, nil
}

// traverse runs the BFS. The caller has verified that root exists.
func traverse(g *framegraph.Graph, root framegraph.FrameRef) (RelationMap, []framegraph.EdgeRef) {
	relations := RelationMap{
		root: {Parent: framegraph.NilFrame, Children: map[framegraph.FrameRef]struct{}{}},
	}
	var cross []framegraph.EdgeRef

	queue := []framegraph.FrameRef{root}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		out, err := g.OutEdges(u)
		if err != nil {
			continue // unreachable: u was discovered through a live edge
		}
		for _, e := range out {
			v, err := g.Target(e)
			if err != nil {
				continue
			}
			if _, discovered := relations[v]; discovered {
				cross = append(cross, e)
				continue
			}
			relations[v] = &Relation{Parent: u, Children: map[framegraph.FrameRef]struct{}{}}
			relations[u].Children[v] = struct{}{}
			queue = append(queue, v)
		}
	}

	return relations, cross
}
