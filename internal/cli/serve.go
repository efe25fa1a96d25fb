package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/envirekit/framegraph/internal/server"
	"github.com/envirekit/framegraph/pkg/scene"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [scene.toml]",
		Short: "Serve a scene's graph and tree views over HTTP",
		Long: `Serve a scene's graph and tree views over HTTP.

Endpoints:
  GET /api/frames        all frames
  GET /api/transforms    all transform edges
  GET /api/tree/{root}   tree view rooted at the named frame
  GET /api/dot/{root}    Graphviz DOT with tree overlay`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			g, err := sc.BuildGraph()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    addr,
				Handler: server.New(g, c.Logger).Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("Serving", "addr", addr, "frames", g.NumFrames())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")

	return cmd
}
