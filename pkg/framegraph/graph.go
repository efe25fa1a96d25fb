package framegraph

import (
	"slices"

	"github.com/google/uuid"

	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/observability"
)

// frameSlot is one storage cell for a frame. Slots are recycled after
// removal; gen is bumped on free so stale descriptors never match.
type frameSlot struct {
	frame Frame
	gen   uint32
	live  bool
	out   []EdgeRef // outgoing edges in insertion order
	in    []EdgeRef // incoming edges in insertion order
}

// edgeSlot is one storage cell for a directed transform edge.
type edgeSlot struct {
	tf   Transform
	gen  uint32
	live bool
	from FrameRef
	to   FrameRef
}

// pair is the ordered endpoint key used to forbid parallel edges.
type pair struct {
	from FrameRef
	to   FrameRef
}

// Graph is a mutable, label-addressable directed graph of frames
// connected by transforms. Frames are addressed either by their unique
// name or by an opaque FrameRef descriptor; edges by EdgeRef.
//
// Parallel edges between the same ordered pair of frames are forbidden:
// inserting an edge that already exists replaces its payload in place.
//
// Enumeration order is stable and deterministic for a fixed graph
// state: Frames and Edges return insertion order, and OutEdges returns
// the order in which the edges were inserted. Tree views rely on this
// order for cross-edge classification.
//
// Graph is not safe for concurrent use without external
// synchronization. Structural-change listeners (see AddListener) are
// invoked synchronously within the mutating call, so a mutation plus
// the resulting listener cascade is one atomic step from the caller's
// perspective.
type Graph struct {
	frames     []frameSlot
	freeFrames []uint32
	edges      []edgeSlot
	freeEdges  []uint32

	byName    map[string]FrameRef
	byPair    map[pair]EdgeRef
	order     []FrameRef // live frames in insertion order
	edgeOrder []EdgeRef  // live edges in insertion order

	listeners []Listener
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		byName: make(map[string]FrameRef),
		byPair: make(map[pair]EdgeRef),
	}
}

// =============================================================================
// Frame operations
// =============================================================================

// AddFrame inserts a frame with the given unique name and returns its
// descriptor. Returns ErrCodeInvalidLabel if the name is empty, or
// ErrCodeDuplicateLabel if a frame with that name already exists.
func (g *Graph) AddFrame(name string) (FrameRef, error) {
	return g.AddFrameWithMeta(name, nil)
}

// AddFrameWithMeta inserts a frame with the given name and item
// metadata. The metadata map is used as-is (not copied); a nil map is
// replaced with an empty one.
func (g *Graph) AddFrameWithMeta(name string, meta Metadata) (FrameRef, error) {
	if name == "" {
		return NilFrame, errors.New(errors.ErrCodeInvalidLabel, "frame name must not be empty")
	}
	if _, exists := g.byName[name]; exists {
		return NilFrame, errors.New(errors.ErrCodeDuplicateLabel, "frame %q already exists", name)
	}
	if meta == nil {
		meta = Metadata{}
	}

	ref := g.allocFrame()
	slot := &g.frames[ref.idx]
	slot.frame = Frame{Name: name, ID: uuid.New(), Meta: meta}
	g.byName[name] = ref
	g.order = append(g.order, ref)

	g.notify(Event{Kind: FrameAdded, Frame: ref})
	return ref, nil
}

// RemoveFrame removes a frame and all its incident edges. The edge
// cleanup is part of this one mutation: listeners receive a single
// FrameRemoved event. Returns ErrCodeFrameNotFound for a stale or
// unknown descriptor.
func (g *Graph) RemoveFrame(ref FrameRef) error {
	slot, err := g.frameSlot(ref)
	if err != nil {
		return err
	}

	for _, e := range slices.Clone(slot.out) {
		g.dropEdge(e)
	}
	for _, e := range slices.Clone(slot.in) {
		g.dropEdge(e)
	}

	delete(g.byName, slot.frame.Name)
	g.order = slices.DeleteFunc(g.order, func(r FrameRef) bool { return r == ref })
	g.freeFrame(ref)

	g.notify(Event{Kind: FrameRemoved, Frame: ref})
	return nil
}

// RemoveFrameByName removes the frame with the given name, resolving
// it through the label index.
func (g *Graph) RemoveFrameByName(name string) error {
	ref, err := g.FrameByName(name)
	if err != nil {
		return err
	}
	return g.RemoveFrame(ref)
}

// FrameByName resolves a frame name through the label index.
// Returns ErrCodeFrameNotFound if no frame carries the name.
func (g *Graph) FrameByName(name string) (FrameRef, error) {
	ref, ok := g.byName[name]
	if !ok {
		return NilFrame, errors.New(errors.ErrCodeFrameNotFound, "no frame named %q", name)
	}
	return ref, nil
}

// Frame returns the frame payload for a descriptor. The returned
// pointer refers to graph-owned storage: callers may edit Meta in
// place, but must not change Name (use the graph API instead).
func (g *Graph) Frame(ref FrameRef) (*Frame, error) {
	slot, err := g.frameSlot(ref)
	if err != nil {
		return nil, err
	}
	return &slot.frame, nil
}

// HasFrame reports whether the descriptor refers to a live frame.
func (g *Graph) HasFrame(ref FrameRef) bool {
	_, err := g.frameSlot(ref)
	return err == nil
}

// Frames returns the descriptors of all live frames in insertion order.
func (g *Graph) Frames() []FrameRef { return slices.Clone(g.order) }

// NumFrames returns the number of live frames.
func (g *Graph) NumFrames() int { return len(g.order) }

// =============================================================================
// Transform (edge) operations
// =============================================================================

// AddOrUpdateTransform inserts a directed transform edge from→to, or,
// if such an edge already exists, replaces its payload in place.
// Parallel edges are never created: the returned descriptor identifies
// the existing edge on update. Self-loops are allowed.
//
// Listeners receive EdgeAdded for an insert and EdgeUpdated for an
// in-place payload replacement; both count as structural changes.
func (g *Graph) AddOrUpdateTransform(from, to FrameRef, tf Transform) (EdgeRef, error) {
	if _, err := g.frameSlot(from); err != nil {
		return NilEdge, err
	}
	if _, err := g.frameSlot(to); err != nil {
		return NilEdge, err
	}

	if existing, ok := g.byPair[pair{from, to}]; ok {
		g.edges[existing.idx].tf = tf
		g.notify(Event{Kind: EdgeUpdated, Edge: existing, From: from, To: to})
		return existing, nil
	}

	ref := g.allocEdge()
	slot := &g.edges[ref.idx]
	slot.tf = tf
	slot.from = from
	slot.to = to

	g.byPair[pair{from, to}] = ref
	g.edgeOrder = append(g.edgeOrder, ref)
	g.frames[from.idx].out = append(g.frames[from.idx].out, ref)
	g.frames[to.idx].in = append(g.frames[to.idx].in, ref)

	g.notify(Event{Kind: EdgeAdded, Edge: ref, From: from, To: to})
	return ref, nil
}

// AddOrUpdateTransformByName is AddOrUpdateTransform with both
// endpoints resolved through the label index.
func (g *Graph) AddOrUpdateTransformByName(fromName, toName string, tf Transform) (EdgeRef, error) {
	from, err := g.FrameByName(fromName)
	if err != nil {
		return NilEdge, err
	}
	to, err := g.FrameByName(toName)
	if err != nil {
		return NilEdge, err
	}
	return g.AddOrUpdateTransform(from, to, tf)
}

// RemoveTransform removes a transform edge.
// Returns ErrCodeTransformNotFound for a stale or unknown descriptor.
func (g *Graph) RemoveTransform(ref EdgeRef) error {
	slot, err := g.edgeSlot(ref)
	if err != nil {
		return err
	}
	from, to := slot.from, slot.to
	g.dropEdge(ref)
	g.notify(Event{Kind: EdgeRemoved, Edge: ref, From: from, To: to})
	return nil
}

// RemoveTransformBetween removes the edge from→to. When destructive is
// true, endpoint frames left without any incident edge are removed as
// well; that cleanup is folded into the single EdgeRemoved event.
func (g *Graph) RemoveTransformBetween(from, to FrameRef, destructive bool) error {
	ref, ok := g.byPair[pair{from, to}]
	if !ok {
		return errors.New(errors.ErrCodeTransformNotFound, "no transform %s -> %s", from, to)
	}
	g.dropEdge(ref)

	if destructive {
		for _, end := range []FrameRef{from, to} {
			slot, err := g.frameSlot(end)
			if err != nil {
				continue // from == to and already dropped
			}
			if len(slot.out)+len(slot.in) == 0 {
				delete(g.byName, slot.frame.Name)
				g.order = slices.DeleteFunc(g.order, func(r FrameRef) bool { return r == end })
				g.freeFrame(end)
			}
		}
	}

	g.notify(Event{Kind: EdgeRemoved, Edge: ref, From: from, To: to})
	return nil
}

// TransformBetween returns the descriptor of the edge from→to.
func (g *Graph) TransformBetween(from, to FrameRef) (EdgeRef, error) {
	ref, ok := g.byPair[pair{from, to}]
	if !ok {
		return NilEdge, errors.New(errors.ErrCodeTransformNotFound, "no transform %s -> %s", from, to)
	}
	return ref, nil
}

// Transform returns the payload of a transform edge.
func (g *Graph) Transform(ref EdgeRef) (Transform, error) {
	slot, err := g.edgeSlot(ref)
	if err != nil {
		return Transform{}, err
	}
	return slot.tf, nil
}

// Source returns the source frame of a transform edge.
func (g *Graph) Source(ref EdgeRef) (FrameRef, error) {
	slot, err := g.edgeSlot(ref)
	if err != nil {
		return NilFrame, err
	}
	return slot.from, nil
}

// Target returns the target frame of a transform edge.
func (g *Graph) Target(ref EdgeRef) (FrameRef, error) {
	slot, err := g.edgeSlot(ref)
	if err != nil {
		return NilFrame, err
	}
	return slot.to, nil
}

// OutEdges returns the outgoing edges of a frame in insertion order.
// This order is stable for a fixed graph state and is the traversal
// order tree views use for cross-edge classification.
func (g *Graph) OutEdges(ref FrameRef) ([]EdgeRef, error) {
	slot, err := g.frameSlot(ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(slot.out), nil
}

// InEdges returns the incoming edges of a frame in insertion order.
func (g *Graph) InEdges(ref FrameRef) ([]EdgeRef, error) {
	slot, err := g.frameSlot(ref)
	if err != nil {
		return nil, err
	}
	return slices.Clone(slot.in), nil
}

// OutDegree returns the number of outgoing edges of a frame, or 0 for
// an unknown descriptor.
func (g *Graph) OutDegree(ref FrameRef) int {
	slot, err := g.frameSlot(ref)
	if err != nil {
		return 0
	}
	return len(slot.out)
}

// InDegree returns the number of incoming edges of a frame, or 0 for
// an unknown descriptor.
func (g *Graph) InDegree(ref FrameRef) int {
	slot, err := g.frameSlot(ref)
	if err != nil {
		return 0
	}
	return len(slot.in)
}

// Edges returns the descriptors of all live edges in insertion order.
func (g *Graph) Edges() []EdgeRef { return slices.Clone(g.edgeOrder) }

// NumTransforms returns the number of live transform edges.
func (g *Graph) NumTransforms() int { return len(g.edgeOrder) }

// Clear removes all frames and edges. Listeners stay registered and
// receive a single GraphCleared event.
func (g *Graph) Clear() {
	g.frames = nil
	g.freeFrames = nil
	g.edges = nil
	g.freeEdges = nil
	g.byName = make(map[string]FrameRef)
	g.byPair = make(map[pair]EdgeRef)
	g.order = nil
	g.edgeOrder = nil

	g.notify(Event{Kind: GraphCleared})
}

// =============================================================================
// Internal slot management
// =============================================================================

func (g *Graph) frameSlot(ref FrameRef) (*frameSlot, error) {
	if ref.IsNil() || int(ref.idx) >= len(g.frames) {
		return nil, errors.New(errors.ErrCodeFrameNotFound, "unknown frame %s", ref)
	}
	slot := &g.frames[ref.idx]
	if !slot.live || slot.gen != ref.gen {
		return nil, errors.New(errors.ErrCodeFrameNotFound, "stale frame descriptor %s", ref)
	}
	return slot, nil
}

func (g *Graph) edgeSlot(ref EdgeRef) (*edgeSlot, error) {
	if ref.IsNil() || int(ref.idx) >= len(g.edges) {
		return nil, errors.New(errors.ErrCodeTransformNotFound, "unknown transform %s", ref)
	}
	slot := &g.edges[ref.idx]
	if !slot.live || slot.gen != ref.gen {
		return nil, errors.New(errors.ErrCodeTransformNotFound, "stale transform descriptor %s", ref)
	}
	return slot, nil
}

// allocFrame reserves a frame slot, recycling freed ones. Generations
// start at 1 so no live descriptor ever equals NilFrame.
func (g *Graph) allocFrame() FrameRef {
	if n := len(g.freeFrames); n > 0 {
		idx := g.freeFrames[n-1]
		g.freeFrames = g.freeFrames[:n-1]
		g.frames[idx].live = true
		return FrameRef{idx: idx, gen: g.frames[idx].gen}
	}
	g.frames = append(g.frames, frameSlot{gen: 1, live: true})
	return FrameRef{idx: uint32(len(g.frames) - 1), gen: 1}
}

// freeFrame releases a slot and bumps its generation so descriptors
// handed out before the removal no longer resolve.
func (g *Graph) freeFrame(ref FrameRef) {
	slot := &g.frames[ref.idx]
	slot.live = false
	slot.gen++
	slot.frame = Frame{}
	slot.out = nil
	slot.in = nil
	g.freeFrames = append(g.freeFrames, ref.idx)
}

func (g *Graph) allocEdge() EdgeRef {
	if n := len(g.freeEdges); n > 0 {
		idx := g.freeEdges[n-1]
		g.freeEdges = g.freeEdges[:n-1]
		g.edges[idx].live = true
		return EdgeRef{idx: idx, gen: g.edges[idx].gen}
	}
	g.edges = append(g.edges, edgeSlot{gen: 1, live: true})
	return EdgeRef{idx: uint32(len(g.edges) - 1), gen: 1}
}

// dropEdge removes an edge from all indices without notifying.
// Callers emit the covering event themselves.
func (g *Graph) dropEdge(ref EdgeRef) {
	slot := &g.edges[ref.idx]
	from, to := slot.from, slot.to

	if int(from.idx) < len(g.frames) {
		fs := &g.frames[from.idx]
		fs.out = slices.DeleteFunc(fs.out, func(r EdgeRef) bool { return r == ref })
	}
	if int(to.idx) < len(g.frames) {
		ts := &g.frames[to.idx]
		ts.in = slices.DeleteFunc(ts.in, func(r EdgeRef) bool { return r == ref })
	}

	delete(g.byPair, pair{from, to})
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(r EdgeRef) bool { return r == ref })

	slot.live = false
	slot.gen++
	slot.from = NilFrame
	slot.to = NilFrame
	slot.tf = Transform{}
	g.freeEdges = append(g.freeEdges, ref.idx)
}

// notify reports the mutation to observability hooks, then dispatches
// the event to listeners.
func (g *Graph) notify(ev Event) {
	observability.Graph().OnMutation(ev.Kind.String(), g.NumFrames(), g.NumTransforms())
	for _, l := range g.listeners {
		l.GraphChanged(ev)
	}
}
