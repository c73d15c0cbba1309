package app

import (
	"context"
	"fmt"

	subsonic_client "github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// ExecuteAuthLoginCommand checks the credentials against the server
// and saves them to the configuration file when the server accepts them.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) {
	logger.Infof(ctx, "Logging in to %s as %s", cfg.ServerURL, cfg.Username)

	if err := Login(ctx, newClient(ctx, cfg), cfg, config.SaveCredentials); err != nil {
		logger.Fatalf(ctx, "Authentication failed: %v", err)
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Authentication complete! You can now download music.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading a song:")
	logger.Info(ctx, "subsonic-grabber 42")
	logger.Info(ctx, "")
	logger.Info(ctx, "Or a list of songs:")
	logger.Info(ctx, "subsonic-grabber songs.txt")
}

// Login pings the server with the configured credentials and hands them to save on success.
func Login(
	ctx context.Context,
	client subsonic_client.Client,
	cfg *config.Config,
	save func(*config.Credentials) error,
) error {
	if err := client.Ping(ctx); err != nil {
		return err
	}

	err := save(&config.Credentials{
		ServerURL: cfg.ServerURL,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}
