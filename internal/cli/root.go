// Package cli implements the magblocks command-line interface.
//
// The root command carries a --verbose flag and attaches a charmbracelet
// logger to the command context. Subcommands:
//   - serve: run the web host
//   - desktop: open the native window host
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. main calls
// it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the magblocks CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "magblocks",
		Short:        "Magnetic blocks toy for the browser and the desktop",
		Long:         `magblocks serves a board of colorful geometric blocks that can be dragged, rotated, shuffled and cleared, preceded by a short splash screen.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("magblocks %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newDesktopCmd())
	return root
}
