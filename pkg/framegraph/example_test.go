package framegraph_test

import (
	"fmt"

	"github.com/envirekit/framegraph/pkg/framegraph"
)

func ExampleGraph() {
	// Build a small frame graph: a robot body under a world frame,
	// with a camera mounted on the body.
	g := framegraph.New()
	world, _ := g.AddFrame("world")
	body, _ := g.AddFrame("body")
	camera, _ := g.AddFrame("camera")

	tf := framegraph.Identity()
	tf.Translation = [3]float64{0, 0, 0.5}
	g.AddOrUpdateTransform(world, body, tf)
	g.AddOrUpdateTransform(body, camera, framegraph.Identity())

	fmt.Println("frames:", g.NumFrames())
	fmt.Println("transforms:", g.NumTransforms())

	// Frames enumerate in insertion order.
	for _, ref := range g.Frames() {
		f, _ := g.Frame(ref)
		fmt.Println(f.Name)
	}
	// Output:
	// frames: 3
	// transforms: 2
	// world
	// body
	// camera
}

func ExampleGraph_AddOrUpdateTransform() {
	g := framegraph.New()
	a, _ := g.AddFrame("a")
	b, _ := g.AddFrame("b")

	first, _ := g.AddOrUpdateTransform(a, b, framegraph.Identity())

	// Inserting the same ordered pair again never creates a parallel
	// edge; the payload is replaced in place.
	tf := framegraph.Identity()
	tf.Translation = [3]float64{1, 0, 0}
	second, _ := g.AddOrUpdateTransform(a, b, tf)

	fmt.Println("same edge:", first == second)
	fmt.Println("transforms:", g.NumTransforms())
	// Output:
	// same edge: true
	// transforms: 1
}
