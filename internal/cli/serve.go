package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/discdraw/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		templates string
		timeout   time.Duration
		noCache   bool
		cacheURL  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render drawings over HTTP",
		Long: `Serve drawings over HTTP.

  GET  /drawing.{dxf,svg,pdf,png,json}?circle_diameter=80
  POST /drawings  {"params": {...}, "formats": ["svg", "pdf"]}

Query keys are the TOML keys printed by "discdraw params". Templates are only
available when --templates names a directory.`,
		Example: `  discdraw serve --addr :8080
  discdraw serve --templates ./templates --cache-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache, cacheURL: cacheURL})
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &http.Server{
				Addr: addr,
				Handler: server.New(runner,
					server.WithLogger(logger),
					server.WithTemplateDir(templates),
					server.WithTimeout(timeout),
				).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listenAndServe(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&templates, "templates", "", "directory of document templates clients may select")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&cacheURL, "cache-url", "", "shared redis cache (redis://host:6379/0)")
	return cmd
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down
// gracefully.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	logger := loggerFromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
