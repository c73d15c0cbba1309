package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/subsonic-grabber/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var songCmd = &cobra.Command{
	Use:              "song {song IDs}",
	Short:            "Print song metadata without downloading",
	Args:             cobra.MinimumNArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, songIDs []string) {
		app.ExecuteSongCommand(cmd.Context(), appConfig, songIDs)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(songCmd)
}
