package framegraph

import "fmt"

// FrameRef is an opaque descriptor identifying a frame in a Graph.
// Descriptors are generation-tagged: when a frame is removed and its
// storage slot is later reused, the generation counter changes, so a
// stale descriptor held across the removal is detected as unknown
// instead of silently aliasing the new occupant.
//
// The zero value is NilFrame, the no-parent sentinel used by tree
// views. Live frames always carry a non-zero generation, so NilFrame
// never collides with a valid descriptor.
type FrameRef struct {
	idx uint32
	gen uint32
}

// NilFrame is the sentinel descriptor that refers to no frame.
var NilFrame FrameRef

// IsNil reports whether the descriptor is the NilFrame sentinel.
func (r FrameRef) IsNil() bool { return r == NilFrame }

// String returns a debug representation of the descriptor.
func (r FrameRef) String() string {
	if r.IsNil() {
		return "frame(nil)"
	}
	return fmt.Sprintf("frame(%d@%d)", r.idx, r.gen)
}

// EdgeRef is an opaque descriptor identifying a directed transform
// edge in a Graph. Like FrameRef it is generation-tagged, and the
// zero value NilEdge refers to no edge.
type EdgeRef struct {
	idx uint32
	gen uint32
}

// NilEdge is the sentinel descriptor that refers to no edge.
var NilEdge EdgeRef

// IsNil reports whether the descriptor is the NilEdge sentinel.
func (r EdgeRef) IsNil() bool { return r == NilEdge }

// String returns a debug representation of the descriptor.
func (r EdgeRef) String() string {
	if r.IsNil() {
		return "edge(nil)"
	}
	return fmt.Sprintf("edge(%d@%d)", r.idx, r.gen)
}
