package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/discdraw/pkg/observability"
)

// Execute runs the discdraw CLI.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//   - With --log-file: log lines are copied to a rotating file
//
// The logger is attached to the command context and reaches every command
// through loggerFromContext.
func Execute(ctx context.Context, args []string) error {
	var (
		verbose bool
		logPath string
	)

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logPath, "log-file", "", "also write log output to this file (rotated at 200 kB)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if logPath != "" {
			f, err := openLogFile(logPath)
			if err != nil {
				return err
			}
			c.logFile = f
			c.Logger = teeLogger(c.stderr, f, level)
		}
		installHooks(c.Logger)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return c.Close()
	}

	err := root.ExecuteContext(ctx)
	if err != nil {
		c.Close()
	}
	return err
}

// installHooks routes pipeline, cache and HTTP events to the logger.
// Request completion is logged at info level; everything else at debug.
func installHooks(l *log.Logger) {
	h := observability.NewLogHooks(l)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}
