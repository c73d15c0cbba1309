package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oshokin/subsonic-grabber/internal/app"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// defaultRandomSongsCount is the batch size when none is given.
const defaultRandomSongsCount = 10

//nolint:gochecknoglobals // Cobra command requires a global definition.
var randomCmd = &cobra.Command{
	Use:              "random [count]",
	Short:            "Download random songs picked by the server (1 to 500, default 10)",
	Args:             cobra.MaximumNArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, args []string) {
		count, err := parseRandomSongsCount(args)
		if err != nil {
			logger.Fatalf(cmd.Context(), "Invalid count: %v", err)
		}

		if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		app.ExecuteRandomCommand(cmd.Context(), appConfig, count)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	addDownloadFlags(randomCmd.Flags())
	rootCmd.AddCommand(randomCmd)
}

func parseRandomSongsCount(args []string) (int, error) {
	if len(args) == 0 {
		return defaultRandomSongsCount, nil
	}

	return strconv.Atoi(args[0])
}
