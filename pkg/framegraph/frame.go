package framegraph

import (
	"time"

	"github.com/google/uuid"
)

// Metadata stores arbitrary key-value pairs attached to a frame.
// It is commonly used to carry item payloads (sensor readings, map
// data) that live in a frame without the graph interpreting them.
// Metadata maps are never nil after AddFrame.
type Metadata map[string]any

// Frame is a named coordinate reference point, the vertex payload of
// the graph. Name doubles as the frame's label in the graph's label
// index and must be unique. ID is assigned on insertion and stays
// stable for the frame's lifetime.
type Frame struct {
	Name string    // Unique label
	ID   uuid.UUID // Stable unique identifier, assigned by AddFrame
	Meta Metadata  // Arbitrary item payloads (never nil after AddFrame)
}

// Transform is the payload of a directed edge: the spatial
// relationship between the source and target frames at a point in
// time. The graph stores it opaquely; composing or inverting
// transforms is up to the caller.
type Transform struct {
	Translation [3]float64 // x, y, z
	Rotation    [4]float64 // quaternion x, y, z, w
	Time        time.Time  // acquisition time (zero if untimed)
}

// Identity returns the identity transform (zero translation, unit
// quaternion, no timestamp).
func Identity() Transform {
	return Transform{Rotation: [4]float64{0, 0, 0, 1}}
}
