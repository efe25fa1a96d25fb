package framegraph

// EventKind identifies the structural mutation that triggered an Event.
type EventKind int

const (
	// FrameAdded fires after a frame was inserted.
	FrameAdded EventKind = iota
	// FrameRemoved fires after a frame and all its incident edges were
	// removed. The incident-edge cleanup is part of this one event.
	FrameRemoved
	// EdgeAdded fires after a new transform edge was inserted.
	EdgeAdded
	// EdgeRemoved fires after a transform edge was removed. When the
	// removal was destructive and dropped orphaned endpoint frames,
	// that cleanup is folded into this one event.
	EdgeRemoved
	// EdgeUpdated fires after AddOrUpdateTransform replaced the payload
	// of an existing edge in place.
	EdgeUpdated
	// GraphCleared fires after Clear wiped the whole graph.
	GraphCleared
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case FrameAdded:
		return "frame-added"
	case FrameRemoved:
		return "frame-removed"
	case EdgeAdded:
		return "edge-added"
	case EdgeRemoved:
		return "edge-removed"
	case EdgeUpdated:
		return "edge-updated"
	case GraphCleared:
		return "graph-cleared"
	default:
		return "unknown"
	}
}

// Event describes one structural mutation of a Graph. Exactly one
// event is dispatched per public mutation call, after the mutation has
// been fully applied, so listeners always observe the post-mutation
// state.
type Event struct {
	Kind  EventKind
	Frame FrameRef // the affected frame for frame events
	Edge  EdgeRef  // the affected edge for edge events
	From  FrameRef // edge source for edge events
	To    FrameRef // edge target for edge events
}

// Listener receives structural-change notifications from a Graph.
// Listeners are invoked synchronously in registration order within the
// mutating call; they may read the graph but must not mutate it.
type Listener interface {
	GraphChanged(Event)
}

// AddListener registers a listener for structural-change events.
// Registering the same listener twice is a no-op.
func (g *Graph) AddListener(l Listener) {
	for _, cur := range g.listeners {
		if cur == l {
			return
		}
	}
	g.listeners = append(g.listeners, l)
}

// RemoveListener unregisters a previously registered listener.
// Removing an unknown listener is a no-op.
func (g *Graph) RemoveListener(l Listener) {
	for i, cur := range g.listeners {
		if cur == l {
			g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
			return
		}
	}
}
