package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the flowmetric CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The --verbose (-v) flag raises the log level to debug. The logger is
// attached to the command context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)

	var verbose bool
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	return root.ExecuteContext(ctx)
}
