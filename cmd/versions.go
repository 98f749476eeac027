package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/mcscoreboards/internal/schema"
	"github.com/papapumpkin/mcscoreboards/internal/ui"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List supported Minecraft versions and their pack formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Versions(schema.Versions())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
