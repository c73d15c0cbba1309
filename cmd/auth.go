package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/subsonic-grabber/internal/app"
	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage the Subsonic server credentials.

Use 'auth login' to check your credentials and save them to the configuration file.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the server and save them",
		Long: `Pings the server with the given credentials and, when the server
accepts them, saves the server address, username and password
to the configuration file (created if it doesn't exist).

Only a salted token derived from the password is sent over the wire.

Example:
subsonic-grabber auth login --server https://music.example.com --username admin --password sesame`,
		PersistentPreRun: initOptionalConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := bindAuthFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteAuthLoginCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	flags := authLoginCmd.Flags()
	flags.StringP("server", "s", "", "server address, e.g. https://music.example.com.")
	flags.StringP("username", "u", "", "account name.")
	flags.StringP("password", "p", "", "account password.")

	authCmd.AddCommand(authLoginCmd)
	rootCmd.AddCommand(authCmd)
}

// initOptionalConfig loads the configuration file when there is one.
// Logging in is how a configuration file gets created in the first place.
func initOptionalConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Debugf(cmd.Context(), "Starting without a configuration file: %v", err)

		appConfig = new(config.Config)
	}
}

func bindAuthFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("server"); flag != nil && flag.Changed {
		cfg.ServerURL, _ = flags.GetString("server")
	}

	if flag := flags.Lookup("username"); flag != nil && flag.Changed {
		cfg.Username, _ = flags.GetString("username")
	}

	if flag := flags.Lookup("password"); flag != nil && flag.Changed {
		cfg.Password, _ = flags.GetString("password")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	logger.SetLevel(cfg.ParsedLogLevel)

	return nil
}
