// Package cli implements the framegraph command-line interface.
//
// This package provides commands for inspecting frame-graph scenes:
// printing tree views, rendering Graphviz output, serving the JSON
// API, and browsing a tree interactively. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - tree: Print the BFS tree view of a scene rooted at a frame
//   - render: Render a scene as Graphviz DOT or SVG
//   - serve: Serve the scene's graph and tree views over HTTP
//   - browse: Navigate a tree view interactively in the terminal
//
// All commands take a TOML scene file (see the scene package) and
// support --verbose (-v) for debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/envirekit/framegraph/pkg/buildinfo"
	"github.com/envirekit/framegraph/pkg/framegraph"
	"github.com/envirekit/framegraph/pkg/framegraph/tree"
	"github.com/envirekit/framegraph/pkg/scene"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "framegraph",
		Short:        "Framegraph inspects frame graphs and their tree views",
		Long:         `Framegraph is a CLI tool for working with graphs of spatial reference frames: it derives breadth-first tree views, classifies cross edges, and renders or serves the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())

	return root
}

// loadView loads a scene, builds its graph, and derives a static tree
// view rooted at rootName. When rootName is empty the first declared
// frame is used.
func (c *CLI) loadView(path, rootName string) (*framegraph.Graph, *tree.View, error) {
	p := newProgress(c.Logger)
	sc, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := sc.BuildGraph()
	if err != nil {
		return nil, nil, err
	}
	p.done("Loaded scene")

	if rootName == "" {
		if len(sc.Frames) == 0 {
			return nil, nil, errFrameless(path)
		}
		rootName = sc.Frames[0].Name
	}
	root, err := g.FrameByName(rootName)
	if err != nil {
		return nil, nil, err
	}
	v, err := tree.Build(g, root)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("built tree view", "root", rootName, "frames", v.Len(), "crossEdges", len(v.CrossEdges()))
	return g, v, nil
}
