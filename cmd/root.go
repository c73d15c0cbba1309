package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/subsonic-grabber/internal/app"
	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
	"github.com/oshokin/subsonic-grabber/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "subsonic-grabber [flags] {song IDs or .txt files}",
		Short: "Download songs from a Subsonic server.",
		Long: `Subsonic Grabber is a CLI tool for downloading songs from any server
that speaks the Subsonic API (Navidrome, Airsonic, Gonic and others).

Songs are given by ID, or by .txt files listing one ID per line.
Files are stored as <artist>/<album>/<track> - <title> and tagged with
the metadata, cover art and lyrics the server provides.`,
		Version:          version.Full(),
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig, args)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	addDownloadFlags(rootCmd.Flags())
}

// addDownloadFlags registers the flags shared by the download commands.
func addDownloadFlags(flags *pflag.FlagSet) {
	flags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn’t exist).")

	flags.BoolP(
		"replace",
		"r",
		false,
		"replace songs that already exist.")

	flags.Bool(
		"embed-cover",
		false,
		"embed cover art into the song tags.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = config.ValidateConfig(appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Invalid configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("replace"); flag != nil && flag.Changed {
		cfg.ReplaceSongs, _ = flags.GetBool("replace")
	}

	if flag := flags.Lookup("embed-cover"); flag != nil && flag.Changed {
		cfg.EmbedCover, _ = flags.GetBool("embed-cover")
	}

	return config.ValidateConfig(cfg)
}
