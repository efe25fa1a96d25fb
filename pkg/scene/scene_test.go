package scene

import (
	"testing"

	"github.com/envirekit/framegraph/pkg/errors"
)

const validScene = `
[[frames]]
name = "world"

[[frames]]
name = "body"
[frames.meta]
robot = "husky"

[[frames]]
name = "camera"

[[transforms]]
from = "world"
to = "body"
translation = [0.0, 0.0, 0.5]

[[transforms]]
from = "body"
to = "camera"
rotation = [0.0, 0.0, 0.7071, 0.7071]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(validScene))
	if err != nil {
		t.Fatalf("Parse = %v", err)
	}
	if len(s.Frames) != 3 {
		t.Errorf("frames = %d, want 3", len(s.Frames))
	}
	if len(s.Transforms) != 2 {
		t.Errorf("transforms = %d, want 2", len(s.Transforms))
	}
	if s.Frames[1].Meta["robot"] != "husky" {
		t.Errorf("meta robot = %v, want husky", s.Frames[1].Meta["robot"])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "not toml",
			input: `{ "frames": [] }`,
		},
		{
			name: "missing frame name",
			input: `
[[frames]]
name = ""
`,
		},
		{
			name: "duplicate frame",
			input: `
[[frames]]
name = "a"
[[frames]]
name = "a"
`,
		},
		{
			name: "undeclared from",
			input: `
[[frames]]
name = "a"
[[transforms]]
from = "ghost"
to = "a"
`,
		},
		{
			name: "undeclared to",
			input: `
[[frames]]
name = "a"
[[transforms]]
from = "a"
to = "ghost"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("Parse = %v, want INVALID_SCENE", err)
			}
		})
	}
}

func TestBuildGraph(t *testing.T) {
	s, err := Parse([]byte(validScene))
	if err != nil {
		t.Fatal(err)
	}
	g, err := s.BuildGraph()
	if err != nil {
		t.Fatalf("BuildGraph = %v", err)
	}

	if g.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", g.NumFrames())
	}
	if g.NumTransforms() != 2 {
		t.Errorf("NumTransforms() = %d, want 2", g.NumTransforms())
	}

	world, err := g.FrameByName("world")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := g.FrameByName("body")
	e, err := g.TransformBetween(world, body)
	if err != nil {
		t.Fatalf("TransformBetween = %v", err)
	}
	tf, _ := g.Transform(e)
	if tf.Translation != [3]float64{0, 0, 0.5} {
		t.Errorf("Translation = %v, want [0 0 0.5]", tf.Translation)
	}
	// Rotation left unset in the file defaults to identity.
	if tf.Rotation != [4]float64{0, 0, 0, 1} {
		t.Errorf("Rotation = %v, want identity", tf.Rotation)
	}

	bf, _ := g.Frame(body)
	if bf.Meta["robot"] != "husky" {
		t.Errorf("body meta robot = %v, want husky", bf.Meta["robot"])
	}
}
