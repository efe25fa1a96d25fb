package tree

import (
	"maps"

	"github.com/envirekit/framegraph/pkg/framegraph"
)

// Relation stores the parent and children of one frame in a tree view.
// A root has Parent == framegraph.NilFrame. Invariant: for every frame
// V with parent P, V is a member of P's Children set.
type Relation struct {
	Parent   framegraph.FrameRef
	Children map[framegraph.FrameRef]struct{}
}

// clone returns a deep copy of the relation.
func (r *Relation) clone() *Relation {
	return &Relation{
		Parent:   r.Parent,
		Children: maps.Clone(r.Children),
	}
}

// RelationMap is the adjacency representation of a tree view: one
// Relation per frame reachable from the view's root.
type RelationMap map[framegraph.FrameRef]*Relation

// clone returns a deep copy of the map and its relations.
func (m RelationMap) clone() RelationMap {
	out := make(RelationMap, len(m))
	for ref, rel := range m {
		out[ref] = rel.clone()
	}
	return out
}
