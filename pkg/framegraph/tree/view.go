package tree

import (
	"slices"

	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/framegraph"
)

// Publisher keeps subscribed views consistent with a graph store and
// is implemented by Registry. A view holds at most one publisher at a
// time and unsubscribes itself on Close.
type Publisher interface {
	// Subscribe registers the view for rebuild dispatch.
	Subscribe(*View) error
	// Unsubscribe removes the view from dispatch. Unsubscribing a view
	// that is not subscribed is a no-op.
	Unsubscribe(*View)
}

// View is a tree-shaped snapshot of a graph: a breadth-first spanning
// tree rooted at a chosen frame plus the list of cross edges (edges
// whose target was already discovered through a different path).
//
// A view is either static (a frozen snapshot, produced by Build or
// Clone) or live (subscribed to a Registry, which rebuilds it after
// every graph mutation). The view owns the unsubscribe obligation: a
// live view must be Closed when no longer needed so the registry never
// holds a dangling reference.
//
// Descriptors held by a view are borrowed from the graph. After a
// static view's graph mutates, descriptors for removed frames resolve
// to not-found in the store; the view itself keeps answering from its
// frozen snapshot.
type View struct {
	root       framegraph.FrameRef
	tree       RelationMap
	crossEdges []framegraph.EdgeRef

	publisher  Publisher
	updateFunc func(error)
}

// Root returns the frame the view was built from.
func (v *View) Root() framegraph.FrameRef { return v.root }

// IsRoot reports whether ref is the view's root, i.e. the single frame
// without a parent. Returns ErrCodeNotInView if ref is not part of the
// view.
func (v *View) IsRoot(ref framegraph.FrameRef) (bool, error) {
	rel, ok := v.tree[ref]
	if !ok {
		return false, errors.New(errors.ErrCodeNotInView, "frame %s not in view", ref)
	}
	return rel.Parent == framegraph.NilFrame, nil
}

// Parent returns the parent of ref in the spanning tree, or
// framegraph.NilFrame for the root. Returns ErrCodeNotInView if ref is
// not part of the view.
func (v *View) Parent(ref framegraph.FrameRef) (framegraph.FrameRef, error) {
	rel, ok := v.tree[ref]
	if !ok {
		return framegraph.NilFrame, errors.New(errors.ErrCodeNotInView, "frame %s not in view", ref)
	}
	return rel.Parent, nil
}

// Children returns the children of ref in the spanning tree. The
// returned set is the view's own storage and must not be modified.
// Returns ErrCodeNotInView if ref is not part of the view.
func (v *View) Children(ref framegraph.FrameRef) (map[framegraph.FrameRef]struct{}, error) {
	rel, ok := v.tree[ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotInView, "frame %s not in view", ref)
	}
	return rel.Children, nil
}

// Contains reports whether ref is reachable from the view's root.
func (v *View) Contains(ref framegraph.FrameRef) bool {
	_, ok := v.tree[ref]
	return ok
}

// CrossEdges returns a copy of the recorded cross edges in discovery
// order. Tree edges never appear here.
func (v *View) CrossEdges() []framegraph.EdgeRef { return slices.Clone(v.crossEdges) }

// Frames returns the frames in the view. Order is unspecified.
func (v *View) Frames() []framegraph.FrameRef {
	out := make([]framegraph.FrameRef, 0, len(v.tree))
	for ref := range v.tree {
		out = append(out, ref)
	}
	return out
}

// Len returns the number of frames in the view. An empty view (root
// removed, or moved-from) has length 0.
func (v *View) Len() int { return len(v.tree) }

// SetUpdateFunc installs the update notification callback. It is
// called once per completed rebuild of a live view: with nil after a
// successful rebuild, or with an ErrCodeRootRemoved fault when the
// root no longer exists. Consumers re-query the view for details.
func (v *View) SetUpdateFunc(fn func(error)) { v.updateFunc = fn }

// Subscribed reports whether the view is bound to a publisher.
func (v *View) Subscribed() bool { return v.publisher != nil }

// SetRoot rebases the view onto a new root frame. The snapshot is not
// rebuilt here; a live view picks up the new root on its next rebuild
// (or via Registry.Refresh). This is the recovery path after the
// previous root was removed from the graph.
func (v *View) SetRoot(root framegraph.FrameRef) { v.root = root }

// Clone duplicates the snapshot: relation map and cross edges are deep
// copied, but the subscription and the update callback are not. The
// clone is a static view regardless of the receiver's state and may be
// subscribed independently later.
func (v *View) Clone() *View {
	return &View{
		root:       v.root,
		tree:       v.tree.clone(),
		crossEdges: slices.Clone(v.crossEdges),
	}
}

// Move transfers the view's snapshot, subscription, and update
// callback to a fresh View and returns it. If the receiver was
// subscribed, the publisher is re-pointed atomically: after Move only
// the returned view receives rebuild notifications. The moved-from
// view is left empty and unsubscribed but remains usable.
func (v *View) Move() *View {
	moved := &View{
		root:       v.root,
		tree:       v.tree,
		crossEdges: v.crossEdges,
		updateFunc: v.updateFunc,
	}

	if pub := v.publisher; pub != nil {
		pub.Unsubscribe(v)
		pub.Subscribe(moved) // sets moved.publisher
	}

	v.tree = RelationMap{}
	v.crossEdges = nil
	v.updateFunc = nil
	return moved
}

// Close unsubscribes the view from its publisher, if any. It is
// idempotent and safe to call on a static view. The snapshot stays
// readable after Close.
func (v *View) Close() {
	if v.publisher != nil {
		v.publisher.Unsubscribe(v)
	}
}

// bind is called by the publisher during Subscribe.
func (v *View) bind(p Publisher) { v.publisher = p }

// unbind is called by the publisher during Unsubscribe.
func (v *View) unbind() { v.publisher = nil }

// replace swaps in a freshly built snapshot during a rebuild.
func (v *View) replace(tree RelationMap, cross []framegraph.EdgeRef) {
	v.tree = tree
	v.crossEdges = cross
}

// fireUpdate invokes the update callback, if installed.
func (v *View) fireUpdate(err error) {
	if v.updateFunc != nil {
		v.updateFunc(err)
	}
}
