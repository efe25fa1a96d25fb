// Package framegraph implements a mutable, label-addressable directed
// graph of spatial reference frames connected by coordinate transforms.
//
// Frames are vertices carrying a unique name, a stable UUID, and
// opaque item metadata. Transforms are directed edges carrying a
// spatial payload the graph never interprets. Both are addressed
// through opaque generation-tagged descriptors ([FrameRef], [EdgeRef])
// that detect staleness across removals, or through the frame-name
// label index.
//
// # Structure
//
// A Graph forbids parallel edges: inserting a transform between an
// already-connected ordered pair of frames replaces the existing
// payload in place. Enumeration order (Frames, Edges, OutEdges) is
// insertion order and stays stable for a fixed graph state; derived
// structures such as tree views depend on this determinism.
//
// # Events
//
// Every public mutation dispatches exactly one [Event] to registered
// [Listener] implementations, synchronously and after the mutation is
// fully applied. The tree package's Registry uses this stream to keep
// live tree views consistent.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Callers that share a graph
// across goroutines must hold one exclusive lock around each mutation,
// which then also covers the synchronous listener cascade.
//
// # Example
//
//	g := framegraph.New()
//	world, _ := g.AddFrame("world")
//	body, _ := g.AddFrame("body")
//	g.AddOrUpdateTransform(world, body, framegraph.Identity())
package framegraph
