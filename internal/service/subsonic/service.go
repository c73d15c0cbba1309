package subsonic

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// Service provides methods for downloading songs from a Subsonic server.
type Service interface {
	// DownloadSongs downloads the songs with the given IDs in order.
	// It stops early and returns the error when the session cannot continue.
	DownloadSongs(ctx context.Context, songIDs []string) error
	// DownloadRandomSongs downloads count random songs picked by the server.
	DownloadRandomSongs(ctx context.Context, count int) error
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the song download service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client is the client for interacting with the Subsonic API.
	client subsonic.Client
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	client subsonic.Client,
	tagProcessor TagProcessor,
) Service {
	return &ServiceImpl{
		cfg:          cfg,
		client:       client,
		tagProcessor: tagProcessor,
		stats:        new(DownloadStatistics),
		statsMutex:   new(sync.Mutex),
	}
}

// DownloadSongs downloads the songs with the given IDs in order.
// Duplicate IDs are downloaded once.
func (s *ServiceImpl) DownloadSongs(ctx context.Context, songIDs []string) error {
	s.markStarted()
	defer s.markFinished()

	seen := make(map[string]struct{}, len(songIDs))

	for _, songID := range songIDs {
		if ctx.Err() != nil {
			logger.Info(ctx, "Download interrupted")

			return nil
		}

		if _, ok := seen[songID]; ok {
			continue
		}

		seen[songID] = struct{}{}

		if err := s.downloadSong(ctx, songID); err != nil && IsSessionAborting(err) {
			return err
		}
	}

	return nil
}

// DownloadRandomSongs downloads count random songs picked by the server.
func (s *ServiceImpl) DownloadRandomSongs(ctx context.Context, count int) error {
	if count < 1 || count > maxRandomSongs {
		return fmt.Errorf("%w: got %d", ErrInvalidRandomSongsCount, count)
	}

	songs, err := s.client.GetRandomSongs(ctx, count)
	if err != nil {
		if len(songs) == 0 || IsSessionAborting(err) {
			return fmt.Errorf("failed to fetch random songs: %w", err)
		}

		// Some records were malformed; the rest are still worth downloading.
		logger.Warnf(ctx, "Some random songs could not be decoded: %v", err)
	}

	songIDs := make([]string, 0, len(songs))
	for _, song := range songs {
		songIDs = append(songIDs, strconv.FormatUint(song.ID, 10))
	}

	logger.Infof(ctx, "Server picked %d random songs", len(songIDs))

	return s.DownloadSongs(ctx, songIDs)
}

// markStarted records the session start time once.
func (s *ServiceImpl) markStarted() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	if s.stats.StartTime.IsZero() {
		s.stats.StartTime = time.Now()
	}
}

// markFinished records the session end time.
func (s *ServiceImpl) markFinished() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.EndTime = time.Now()
}
