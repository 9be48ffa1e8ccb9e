package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"muxd/internal/socketdir"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List running muxd sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := socketdir.List()
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("no running sessions")
				return nil
			}
			for _, e := range entries {
				fmt.Println(e.Name)
			}
			return nil
		},
	}
}
