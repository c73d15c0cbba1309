package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	subsonic_client "github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// ExecuteSongCommand prints the metadata of the given songs.
func ExecuteSongCommand(ctx context.Context, cfg *config.Config, songIDs []string) {
	client := newClient(ctx, cfg)

	for _, songID := range songIDs {
		song, err := client.GetSong(ctx, songID)
		if err != nil {
			logger.Errorf(ctx, "Failed to fetch song %s: %v", songID, err)

			continue
		}

		for _, line := range DescribeSong(song) {
			logger.Info(ctx, line)
		}

		logger.Info(ctx, "")
	}
}

// DescribeSong renders song metadata as aligned "Label: value" lines.
// Absent optional fields are left out.
func DescribeSong(song *subsonic_client.Song) []string {
	lines := []string{fmt.Sprintf("%-10s %d", "ID:", song.ID)}

	addString := func(label string, value *string) {
		if value != nil {
			lines = append(lines, fmt.Sprintf("%-10s %s", label+":", *value))
		}
	}

	addUint := func(label string, value *uint64) {
		if value != nil {
			lines = append(lines, fmt.Sprintf("%-10s %s", label+":", strconv.FormatUint(*value, 10)))
		}
	}

	addString("Title", song.Title)
	addString("Artist", song.Artist)
	addString("Album", song.Album)
	addUint("Track", song.Track)
	addUint("Year", song.Year)
	addString("Genre", song.Genre)

	//nolint:gosec // Song durations are far below the int64 range.
	duration := time.Duration(song.Duration) * time.Second

	lines = append(lines,
		fmt.Sprintf("%-10s %s", "Duration:", duration.String()),
		fmt.Sprintf("%-10s %s", "Size:", humanize.Bytes(song.Size)),
		fmt.Sprintf("%-10s %s", "Path:", song.Path),
	)

	return lines
}
