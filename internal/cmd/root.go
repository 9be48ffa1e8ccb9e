// Package cmd wires muxd's cobra command tree: a thin entrypoint over the
// session daemon and its attach client (SPEC_FULL.md §0 "module shape").
// Argument parsing and flag definitions are the only things that belong
// here; everything else delegates to internal/session.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "muxd",
		Short:         "A terminal multiplexer server",
		Long:          "muxd owns a tiled collection of PTY-backed panes and lets clients attach to them over a Unix domain socket.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newAttachCmd(),
		newStatusCmd(),
		newLsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
