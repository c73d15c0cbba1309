package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/subsonic-grabber/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var pingCmd = &cobra.Command{
	Use:              "ping",
	Short:            "Check that the server is reachable and accepts the credentials",
	Args:             cobra.NoArgs,
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, _ []string) {
		app.ExecutePingCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(pingCmd)
}
