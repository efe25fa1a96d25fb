// Package scene loads frame-graph descriptions from TOML files.
//
// A scene file declares frames and the transforms connecting them:
//
//	[[frames]]
//	name = "world"
//
//	[[frames]]
//	name = "body"
//	[frames.meta]
//	robot = "husky"
//
//	[[transforms]]
//	from = "world"
//	to = "body"
//	translation = [0.0, 0.0, 0.5]
//	rotation = [0.0, 0.0, 0.0, 1.0]
//
// Scenes are a tooling surface for the CLI and the HTTP server; the
// core graph itself has no file format.
package scene

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/envirekit/framegraph/pkg/errors"
	"github.com/envirekit/framegraph/pkg/framegraph"
)

// Scene is a parsed frame-graph description.
type Scene struct {
	Frames     []FrameDecl     `toml:"frames"`
	Transforms []TransformDecl `toml:"transforms"`
}

// FrameDecl declares one frame.
type FrameDecl struct {
	Name string         `toml:"name"`
	Meta map[string]any `toml:"meta"`
}

// TransformDecl declares one directed transform between two declared
// frames.
type TransformDecl struct {
	From        string     `toml:"from"`
	To          string     `toml:"to"`
	Translation [3]float64 `toml:"translation"`
	Rotation    [4]float64 `toml:"rotation"`
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read scene %s", path)
	}
	return Parse(data)
}

// Parse parses a scene from TOML bytes and validates it: every frame
// needs a name, and every transform must reference declared frames.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse scene")
	}

	declared := make(map[string]bool, len(s.Frames))
	for i, f := range s.Frames {
		if f.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidScene, "frames[%d] has no name", i)
		}
		if declared[f.Name] {
			return nil, errors.New(errors.ErrCodeInvalidScene, "frame %q declared twice", f.Name)
		}
		declared[f.Name] = true
	}
	for i, tf := range s.Transforms {
		if !declared[tf.From] {
			return nil, errors.New(errors.ErrCodeInvalidScene, "transforms[%d] references undeclared frame %q", i, tf.From)
		}
		if !declared[tf.To] {
			return nil, errors.New(errors.ErrCodeInvalidScene, "transforms[%d] references undeclared frame %q", i, tf.To)
		}
	}
	return &s, nil
}

// BuildGraph populates a fresh graph store from the scene. Frames and
// transforms are inserted in declaration order, so the resulting
// enumeration order (and therefore tree-view cross-edge
// classification) matches the file.
func (s *Scene) BuildGraph() (*framegraph.Graph, error) {
	g := framegraph.New()
	for _, f := range s.Frames {
		if _, err := g.AddFrameWithMeta(f.Name, framegraph.Metadata(f.Meta)); err != nil {
			return nil, err
		}
	}
	for _, tf := range s.Transforms {
		rot := tf.Rotation
		if rot == ([4]float64{}) {
			rot = [4]float64{0, 0, 0, 1} // unset rotation means identity
		}
		payload := framegraph.Transform{Translation: tf.Translation, Rotation: rot}
		if _, err := g.AddOrUpdateTransformByName(tf.From, tf.To, payload); err != nil {
			return nil, err
		}
	}
	return g, nil
}
