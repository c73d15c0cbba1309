package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	subsonic_client "github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/constants"
	"github.com/oshokin/subsonic-grabber/internal/logger"
	subsonic_service "github.com/oshokin/subsonic-grabber/internal/service/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/utils"
)

// ErrNoSongIDs indicates that the arguments did not name any song.
var ErrNoSongIDs = errors.New("no song IDs given")

// ExecuteRootCommand is the entry point for the application.
// Arguments are song IDs or paths to .txt files listing one ID per line.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, args []string) {
	songIDs, err := CollectSongIDs(args)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read song IDs: %v", err)
	}

	s := newDownloadService(ctx, cfg)

	// Ensure statistics are ALWAYS printed, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	if err = s.DownloadSongs(ctx, songIDs); err != nil {
		logger.Errorf(ctx, "Download stopped: %v", err)
	}
}

// ExecuteRandomCommand downloads count random songs picked by the server.
func ExecuteRandomCommand(ctx context.Context, cfg *config.Config, count int) {
	s := newDownloadService(ctx, cfg)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	if err := s.DownloadRandomSongs(ctx, count); err != nil {
		logger.Errorf(ctx, "Download stopped: %v", err)
	}
}

// CollectSongIDs expands arguments into song IDs, keeping the first occurrence of each.
// An argument ending in .txt is read as a list of IDs.
func CollectSongIDs(args []string) ([]string, error) {
	var (
		songIDs = make([]string, 0, len(args))
		seen    = make(map[string]struct{}, len(args))
	)

	add := func(songID string) {
		songID = strings.TrimSpace(songID)
		if songID == "" {
			return
		}

		if _, ok := seen[songID]; ok {
			return
		}

		seen[songID] = struct{}{}
		songIDs = append(songIDs, songID)
	}

	for _, arg := range args {
		if !strings.EqualFold(filepath.Ext(arg), constants.ExtensionTXT) {
			add(arg)

			continue
		}

		lines, err := utils.ReadUniqueLinesFromFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read '%s': %w", arg, err)
		}

		for _, line := range lines {
			add(line)
		}
	}

	if len(songIDs) == 0 {
		return nil, ErrNoSongIDs
	}

	return songIDs, nil
}

func newClient(ctx context.Context, cfg *config.Config) subsonic_client.Client {
	client, err := subsonic_client.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize subsonic client: %v", err)
	}

	return client
}

func newDownloadService(ctx context.Context, cfg *config.Config) subsonic_service.Service {
	return subsonic_service.NewService(cfg, newClient(ctx, cfg), subsonic_service.NewTagProcessor())
}
