package app

import (
	"context"

	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// ExecutePingCommand checks that the server is reachable and accepts the credentials.
func ExecutePingCommand(ctx context.Context, cfg *config.Config) {
	client := newClient(ctx, cfg)

	if err := client.Ping(ctx); err != nil {
		logger.Fatalf(ctx, "Ping failed: %v", err)
	}

	logger.Infof(ctx, "Server %s is reachable, credentials accepted", client.GetBaseURL())
}
