package subsonic

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/constants"
	"github.com/oshokin/subsonic-grabber/internal/logger"
	"github.com/oshokin/subsonic-grabber/internal/utils"
)

// overwriteFileOptions are the file options for (re)writing a .part file.
const overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

// downloadSong runs the whole pipeline for one song: metadata, content, tags, rename.
// Failures are logged and recorded; the error is returned so the caller can decide whether to go on.
func (s *ServiceImpl) downloadSong(ctx context.Context, songID string) error {
	errCtx := &errorContext{songID: songID, phase: "fetching metadata"}

	song, err := s.client.GetSong(ctx, songID)
	if err != nil {
		s.handleError(ctx, errCtx, err)

		return err
	}

	errCtx.songTitle = songTitle(song)
	songPath := s.songPath(song)

	ctx = logger.WithKV(ctx, "song_id", songID)
	logger.Infof(ctx, "Downloading '%s'", errCtx.songTitle)

	errCtx.phase = "downloading song"

	result, err := s.downloadAndSaveSong(ctx, song, songPath)
	if err != nil {
		s.handleError(ctx, errCtx, err)

		return err
	}

	if result.isExist {
		logger.Infof(ctx, "File '%s' already exists, skipping download", songPath)
		s.incrementSongSkipped(SkipReasonExists)

		return nil
	}

	errCtx.phase = "writing tags"

	if err = s.writeSongTags(ctx, song, result.tempPath); err != nil {
		s.removePartFile(ctx, result.tempPath)
		s.handleError(ctx, errCtx, err)

		return err
	}

	errCtx.phase = "renaming file"

	if err = os.Rename(result.tempPath, songPath); err != nil {
		s.removePartFile(ctx, result.tempPath)

		err = subsonic.FromIO(err)
		s.handleError(ctx, errCtx, err)

		return err
	}

	s.incrementSongDownloaded(result.bytesDownloaded)
	logger.Infof(ctx, "Saved '%s'", songPath)

	return nil
}

// songPath builds <output>/<artist>/<album>/<NN - title><ext> for a song.
func (s *ServiceImpl) songPath(song *subsonic.Song) string {
	artist := defaultUnknownArtist
	if song.Artist != nil && strings.TrimSpace(*song.Artist) != "" {
		artist = *song.Artist
	}

	album := defaultUnknownAlbum
	if song.Album != nil && strings.TrimSpace(*song.Album) != "" {
		album = *song.Album
	}

	filename := songTitle(song)
	if song.Track != nil {
		filename = fmt.Sprintf("%0*d - %s", trackNumberPaddingWidth, *song.Track, filename)
	}

	filename = utils.SanitizeFilename(filename)
	if extension := path.Ext(song.Path); extension != "" {
		filename = utils.SetFileExtension(filename, strings.ToLower(extension), false)
	}

	return filepath.Join(
		s.cfg.OutputPath,
		utils.SanitizeFilename(artist),
		utils.SanitizeFilename(album),
		filename,
	)
}

// songTitle returns the song title, falling back to the server file name.
func songTitle(song *subsonic.Song) string {
	if song.Title != nil && strings.TrimSpace(*song.Title) != "" {
		return *song.Title
	}

	base := path.Base(song.Path)
	if title := strings.TrimSuffix(base, path.Ext(base)); title != "" && title != "." && title != "/" {
		return title
	}

	return strconv.FormatUint(song.ID, 10)
}

// downloadAndSaveSong streams the song content into a .part file next to songPath.
// The .part file is removed on any failure and left for the caller to rename on success.
func (s *ServiceImpl) downloadAndSaveSong(
	ctx context.Context,
	song *subsonic.Song,
	songPath string,
) (*songDownloadResult, error) {
	isExist, err := utils.IsFileExist(songPath)
	if err != nil {
		return nil, subsonic.FromIO(err)
	}

	if isExist && !s.cfg.ReplaceSongs {
		return &songDownloadResult{isExist: true}, nil
	}

	if err = os.MkdirAll(filepath.Dir(songPath), constants.DefaultFolderPermissions); err != nil {
		return nil, subsonic.FromIO(err)
	}

	download, err := s.client.Download(ctx, strconv.FormatUint(song.ID, 10))
	if err != nil {
		return nil, err
	}

	defer download.Body.Close() //nolint:errcheck // Error on close is not critical here.

	expectedBytes := download.TotalBytes
	if expectedBytes < 0 {
		expectedBytes = utils.SafeUint64ToInt64(song.Size)
	}

	tempPath := songPath + constants.ExtensionPart

	// Always overwrite .part files: they are leftovers of interrupted downloads.
	f, err := os.OpenFile(filepath.Clean(tempPath), overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return nil, subsonic.FromIO(err)
	}

	var downloadSucceeded bool

	defer func() {
		closeErr := f.Close()

		if !downloadSucceeded {
			if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
					tempPath, removeErr, closeErr)
			}
		}
	}()

	var writer io.Writer = f

	if logger.Level() <= zap.InfoLevel {
		bar := progressbar.DefaultBytes(expectedBytes, "Downloading")
		writer = io.MultiWriter(f, bar)
	}

	bytesWritten, err := io.Copy(writer, download.Body)
	if err != nil {
		return nil, &subsonic.StreamError{Reason: "failed to receive content", Err: err}
	}

	if bytesWritten != expectedBytes {
		return nil, &subsonic.StreamError{
			Reason: fmt.Sprintf("received %d bytes, expected %d bytes", bytesWritten, expectedBytes),
			Err:    io.ErrUnexpectedEOF,
		}
	}

	downloadSucceeded = true

	return &songDownloadResult{
		tempPath:        tempPath,
		bytesDownloaded: bytesWritten,
	}, nil
}

// removePartFile deletes a .part file, logging failures.
func (s *ServiceImpl) removePartFile(ctx context.Context, tempPath string) {
	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v", tempPath, err)
	}
}

// writeSongTags collects cover art and lyrics and writes tags into the .part file.
// Cover and lyrics failures only cost the extra metadata.
func (s *ServiceImpl) writeSongTags(ctx context.Context, song *subsonic.Song, tempPath string) error {
	format := audioFormatFromPath(strings.TrimSuffix(tempPath, constants.ExtensionPart))
	if format == AudioFormatUnknown {
		logger.Debugf(ctx, "Skipping tags for '%s': %v", tempPath, ErrUnsupportedFormat)

		return nil
	}

	req := &WriteTagsRequest{
		SongPath: tempPath,
		Format:   format,
		SongTags: songTags(song),
		Cover:    s.fetchCover(ctx, song),
		Lyrics:   s.fetchLyrics(ctx, song),
	}

	if err := s.tagProcessor.WriteTags(ctx, req); err != nil {
		return err
	}

	if req.Cover != nil {
		s.incrementCoverEmbedded()
	}

	if req.Lyrics != "" {
		s.incrementLyricsEmbedded()
	}

	return nil
}

// fetchCover downloads the song cover when embedding is enabled.
func (s *ServiceImpl) fetchCover(ctx context.Context, song *subsonic.Song) *Image {
	if !s.cfg.EmbedCover || song.CoverArtID == nil {
		return nil
	}

	data, err := s.client.GetCoverArt(ctx, strconv.FormatUint(*song.CoverArtID, 10))
	if err != nil {
		logger.Warnf(ctx, "Failed to fetch cover art: %v", err)

		return nil
	}

	if len(data) == 0 {
		return nil
	}

	return &Image{
		Data:     data,
		MIMEType: utils.DetectImageMIMEType(data),
	}
}

// fetchLyrics looks up lyrics by artist and title.
func (s *ServiceImpl) fetchLyrics(ctx context.Context, song *subsonic.Song) string {
	if song.Artist == nil || song.Title == nil {
		return ""
	}

	lyrics, err := s.client.GetLyrics(ctx, *song.Artist, *song.Title)
	if err != nil {
		logger.Warnf(ctx, "Failed to fetch lyrics: %v", err)

		return ""
	}

	if !lyrics.HasText() {
		return ""
	}

	return strings.TrimSpace(*lyrics.Text)
}

// songTags maps song metadata to tag values.
func songTags(song *subsonic.Song) map[string]string {
	tags := map[string]string{
		TagSongID: strconv.FormatUint(song.ID, 10),
		TagTitle:  songTitle(song),
	}

	setString := func(key string, value *string) {
		if value != nil {
			tags[key] = *value
		}
	}

	setUint := func(key string, value *uint64) {
		if value != nil {
			tags[key] = strconv.FormatUint(*value, 10)
		}
	}

	setString(TagAlbum, song.Album)
	setString(TagArtist, song.Artist)
	setString(TagGenre, song.Genre)
	setUint(TagAlbumID, song.AlbumID)
	setUint(TagArtistID, song.ArtistID)
	setUint(TagTrackNumber, song.Track)
	setUint(TagYear, song.Year)

	return tags
}
