package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"muxd/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the muxd version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.DisplayVersion())
			return nil
		},
	}
}
