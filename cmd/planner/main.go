// Command planner runs the session import pipeline offline: preview a file,
// expand a recurrence rule, write sample files, or import into a local
// SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sessionplanner/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	output   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Study session import tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != "json" && opts.output != "yaml" {
				return fmt.Errorf("--output must be json or yaml, got %q", opts.output)
			}
			logging.Setup(logging.Options{Level: opts.logLevel, Format: "text"})
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json|yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newExpandCmd(opts))
	root.AddCommand(newSampleCmd())
	root.AddCommand(newImportCmd(opts))
	return root
}
