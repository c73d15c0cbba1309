package subsonic

import (
	"fmt"
	"time"
)

const (
	// defaultUnknownArtist names the folder of songs without an artist.
	defaultUnknownArtist = "Unknown Artist"
	// defaultUnknownAlbum names the folder of songs without an album.
	defaultUnknownAlbum = "Unknown Album"
	// trackNumberPaddingWidth is the width of the zero-padded track number prefix.
	trackNumberPaddingWidth = 2
	// maxRandomSongs is the largest batch getRandomSongs serves in one call.
	maxRandomSongs = 500
)

// SkipReason represents why a song was skipped.
type SkipReason uint8

const (
	// SkipReasonExists - song file already exists.
	SkipReasonExists SkipReason = iota
)

// String returns a human-readable representation of the SkipReason.
func (r SkipReason) String() string {
	switch r {
	case SkipReasonExists:
		return "exists"
	default:
		return fmt.Sprintf("unknown: %d", r)
	}
}

// DownloadError describes one failed song.
type DownloadError struct {
	// SongID is the identifier the user asked for.
	SongID string
	// SongTitle is the song title, empty when metadata could not be fetched.
	SongTitle string
	// Phase indicates when the error occurred (e.g., "fetching metadata").
	Phase string
	// ErrorKind is the client error category of the failure.
	ErrorKind string
	// ErrorMessage is the rendered error.
	ErrorMessage string
}

// DownloadStatistics tracks the outcome of a download session.
type DownloadStatistics struct {
	// TotalSongsProcessed is the number of songs that reached a final state.
	TotalSongsProcessed int64
	// SongsDownloaded is the number of songs written to disk.
	SongsDownloaded int64
	// SongsSkipped is the number of songs left untouched.
	SongsSkipped int64
	// SongsSkippedExists is the number of songs skipped because the file exists.
	SongsSkippedExists int64
	// SongsFailed is the number of songs that failed.
	SongsFailed int64
	// TotalBytesDownloaded is the number of content bytes received.
	TotalBytesDownloaded int64
	// CoversEmbedded is the number of covers embedded into tags.
	CoversEmbedded int64
	// LyricsEmbedded is the number of lyrics embedded into tags.
	LyricsEmbedded int64
	// Errors lists every recorded failure.
	Errors []DownloadError
	// StartTime is when the session started.
	StartTime time.Time
	// EndTime is when the session finished.
	EndTime time.Time
}

// songDownloadResult holds the outcome of streaming one song to disk.
type songDownloadResult struct {
	// isExist is true when the target already existed and was kept.
	isExist bool
	// tempPath is the .part file holding the content.
	tempPath string
	// bytesDownloaded is the number of bytes written.
	bytesDownloaded int64
}
