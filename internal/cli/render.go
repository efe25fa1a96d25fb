package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envirekit/framegraph/pkg/dot"
	"github.com/envirekit/framegraph/pkg/errors"
)

// Render output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderCommand creates the render command for Graphviz output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rootName string
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene as Graphviz DOT or SVG",
		Long: `Render a scene as Graphviz DOT or SVG.

The tree view rooted at --root overlays the output: tree edges render
solid, cross edges dashed, and frames unreachable from the root are
dimmed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return errors.New(errors.ErrCodeInvalidScene, "unknown format %q (want dot or svg)", format)
			}

			g, v, err := c.loadView(args[0], rootName)
			if err != nil {
				return err
			}

			p := newProgress(c.Logger)
			out := []byte(dot.ToDOT(g, v, dot.Options{Detailed: detailed}))
			if format == formatSVG {
				out, err = dot.RenderSVG(string(out))
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			}
			p.done("Rendered " + format)

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.Logger.Info("Wrote output", "path", output, "bytes", len(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootName, "root", "r", "", "root frame name (default: first declared frame)")
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include frame UUIDs in labels")

	return cmd
}
