package subsonic

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/subsonic-grabber/internal/logger"
	"github.com/oshokin/subsonic-grabber/internal/utils"
)

const summaryRule = "═══════════════════════════════════════════════════════════════"

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// incrementSongDownloaded increments the downloaded songs counter and adds bytes.
func (s *ServiceImpl) incrementSongDownloaded(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.SongsDownloaded++
	s.stats.TotalSongsProcessed++
	s.stats.TotalBytesDownloaded += bytes
}

// incrementSongSkipped increments the skipped songs counter with reason.
func (s *ServiceImpl) incrementSongSkipped(reason SkipReason) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.SongsSkipped++
	s.stats.TotalSongsProcessed++

	if reason == SkipReasonExists {
		s.stats.SongsSkippedExists++
	}
}

// incrementSongFailed increments the failed songs counter.
func (s *ServiceImpl) incrementSongFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.SongsFailed++
	s.stats.TotalSongsProcessed++
}

// incrementCoverEmbedded increments the embedded covers counter.
func (s *ServiceImpl) incrementCoverEmbedded() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.CoversEmbedded++
}

// incrementLyricsEmbedded increments the embedded lyrics counter.
func (s *ServiceImpl) incrementLyricsEmbedded() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.LyricsEmbedded++
}

// Statistics returns a copy of the current statistics.
func (s *ServiceImpl) Statistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := *s.stats
	stats.Errors = append([]DownloadError(nil), s.stats.Errors...)

	return stats
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	stats := s.Statistics()

	// If nothing was processed, don't print summary.
	if stats.TotalSongsProcessed == 0 {
		return
	}

	title := "                     DOWNLOAD SUMMARY"
	if ctx.Err() != nil {
		title = "           DOWNLOAD SUMMARY (Interrupted)"
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summaryRule)
	logger.Info(ctx, title)
	logger.Info(ctx, summaryRule)

	s.printSongStatistics(ctx, &stats)
	s.printDataTransferStatistics(ctx, &stats)
	s.printExtrasStatistics(ctx, &stats)

	logger.Info(ctx, summaryRule)

	s.printErrorDetails(ctx, &stats)
}

// printSongStatistics prints song counters and the success rate.
func (s *ServiceImpl) printSongStatistics(ctx context.Context, stats *DownloadStatistics) {
	logger.Infof(ctx, "Songs:            %d total processed", stats.TotalSongsProcessed)

	if stats.SongsDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.SongsDownloaded)
	}

	if stats.SongsSkipped > 0 {
		logger.Infof(ctx, "  Skipped:         %d total", stats.SongsSkipped)

		if stats.SongsSkippedExists > 0 {
			logger.Infof(ctx, "    Already Exist: %d", stats.SongsSkippedExists)
		}
	}

	if stats.SongsFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.SongsFailed)
	}

	successCount := stats.SongsDownloaded + stats.SongsSkipped
	successRate := float64(successCount) / float64(stats.TotalSongsProcessed) * 100
	logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
}

// printDataTransferStatistics prints data transfer statistics.
func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalBytesDownloaded > 0 {
		logger.Info(ctx, "")
		logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(uint64(stats.TotalBytesDownloaded))) //nolint:gosec // Always positive.
	}

	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)

	// Only show if duration is meaningful (> 100ms).
	if duration <= 100*time.Millisecond {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

	if stats.TotalBytesDownloaded > 0 {
		bytesPerSecond := float64(stats.TotalBytesDownloaded) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

// printExtrasStatistics prints embedded cover and lyrics counters.
func (s *ServiceImpl) printExtrasStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.CoversEmbedded > 0 {
		logger.Infof(ctx, "Covers Embedded:  %d", stats.CoversEmbedded)
	}

	if stats.LyricsEmbedded > 0 {
		logger.Infof(ctx, "Lyrics Embedded:  %d", stats.LyricsEmbedded)
	}
}

// printErrorDetails lists recorded failures grouped by error kind.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Errors (%d):", len(stats.Errors))

	for _, kind := range errorKinds(stats.Errors) {
		logger.Infof(ctx, "  [%s]", kind)

		for _, downloadErr := range stats.Errors {
			if downloadErr.ErrorKind != kind {
				continue
			}

			label := downloadErr.SongID
			if downloadErr.SongTitle != "" {
				label = fmt.Sprintf("%s (%s)", downloadErr.SongTitle, downloadErr.SongID)
			}

			logger.Infof(ctx, "    %s, %s: %s", label, downloadErr.Phase, downloadErr.ErrorMessage)
		}
	}
}

// errorKinds returns the distinct error kinds in first-seen order.
func errorKinds(downloadErrors []DownloadError) []string {
	seen := make(map[string]struct{}, len(downloadErrors))
	kinds := make([]string, 0, len(downloadErrors))

	for _, kind := range utils.Map(downloadErrors, func(e DownloadError) string { return e.ErrorKind }) {
		if _, ok := seen[kind]; ok {
			continue
		}

		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}

	return kinds
}
