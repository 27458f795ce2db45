// Package cli implements the discdraw command-line interface.
//
// # Commands
//
//   - draw: lay out the disc drawing and save it (DXF, SVG, PDF, PNG, JSON)
//   - plan: print every computed coordinate without saving anything
//   - inspect: browse the entities of a drawing interactively
//   - serve: render drawings over HTTP
//   - history: list previously drawn discs
//   - params: print the Parameter Set as TOML
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and --log-file
// to copy log output to a file. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/buildinfo"
	"github.com/matzehuels/discdraw/pkg/cache"
	"github.com/matzehuels/discdraw/pkg/pipeline"
	"github.com/matzehuels/discdraw/pkg/register"
)

// appName is the application name used for directories and display.
const appName = "discdraw"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stderr  io.Writer
	logFile io.Closer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), stderr: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "discdraw draws parametric disc parts as CAD documents",
		Long:         `discdraw lays out the technical drawing of a circular disc (plan view, side profile, dimensions, tolerances and an inspection note) from a small set of parameters and saves it as DXF, SVG, PDF, PNG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.drawCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.paramsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects the cache and register a runner uses.
type runnerOpts struct {
	noCache  bool
	cacheURL string // redis://... selects the shared cache
	history  bool   // record drawings in the register
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, o runnerOpts) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	ch, err := newCache(ctx, logger, o)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), logger)

	if o.history {
		path, err := registerPath()
		if err == nil {
			r.Register, err = register.Open(ctx, path)
		}
		if err != nil {
			logger.Warn("drawing history disabled", "err", err)
		}
	}
	return r, nil
}

func newCache(ctx context.Context, logger *log.Logger, o runnerOpts) (cache.Cache, error) {
	if o.noCache {
		return cache.NewNullCache(), nil
	}
	if o.cacheURL != "" {
		return cache.NewRedisCache(ctx, o.cacheURL, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/discdraw/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// registerPath returns the drawing register location. XDG_DATA_HOME takes
// precedence over the user config directory.
func registerPath() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "register.db"), nil
	}
	return register.DefaultPath()
}

// parseFormats splits a comma-separated format list. Empty yields nil.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
