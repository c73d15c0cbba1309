package subsonic_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	mock_subsonic_client "github.com/oshokin/subsonic-grabber/internal/client/subsonic/mocks"
	"github.com/oshokin/subsonic-grabber/internal/config"
	service "github.com/oshokin/subsonic-grabber/internal/service/subsonic"
	mock_subsonic_service "github.com/oshokin/subsonic-grabber/internal/service/subsonic/mocks"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// testEnv bundles a service with its mocks.
type testEnv struct {
	cfg          *config.Config
	client       *mock_subsonic_client.MockClient
	tagProcessor *mock_subsonic_service.MockTagProcessor
	service      *service.ServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{
		OutputPath: t.TempDir(),
		EmbedCover: true,
	}

	client := mock_subsonic_client.NewMockClient(ctrl)
	tagProcessor := mock_subsonic_service.NewMockTagProcessor(ctrl)

	impl, ok := service.NewService(cfg, client, tagProcessor).(*service.ServiceImpl)
	require.True(t, ok, "Service should be of type *ServiceImpl")

	return &testEnv{
		cfg:          cfg,
		client:       client,
		tagProcessor: tagProcessor,
		service:      impl,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func testSong(id uint64, songPath string) *subsonic.Song {
	return &subsonic.Song{
		ID:         id,
		Title:      ptr("Intro"),
		Album:      ptr("First Light"),
		Artist:     ptr("The Examples"),
		Track:      ptr(uint64(1)),
		Year:       ptr(uint64(2019)),
		CoverArtID: ptr(uint64(7)),
		Size:       7,
		Duration:   215,
		Path:       songPath,
	}
}

func downloadOf(content []byte) *subsonic.DownloadResult {
	return &subsonic.DownloadResult{
		Body:        io.NopCloser(bytes.NewReader(content)),
		TotalBytes:  int64(len(content)),
		ContentType: "audio/flac",
	}
}

func findPartFiles(t *testing.T, root string) []string {
	t.Helper()

	var partFiles []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".part") {
			partFiles = append(partFiles, path)
		}

		return nil
	})
	require.NoError(t, err)

	return partFiles
}

// TestDownloadSongs_Success tests the full pipeline for one FLAC song.
func TestDownloadSongs_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	content := []byte("fLaC...")
	song := testSong(42, "The Examples/First Light/01 - Intro.flac")

	env.client.EXPECT().GetSong(gomock.Any(), "42").Return(song, nil)
	env.client.EXPECT().Download(gomock.Any(), "42").Return(downloadOf(content), nil)
	env.client.EXPECT().GetCoverArt(gomock.Any(), "7").Return(pngHeader, nil)
	env.client.EXPECT().GetLyrics(gomock.Any(), "The Examples", "Intro").
		Return(&subsonic.Lyrics{Text: ptr("  la la la\n")}, nil)

	env.tagProcessor.EXPECT().WriteTags(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *service.WriteTagsRequest) error {
			assert.True(t, strings.HasSuffix(req.SongPath, ".flac.part"))
			assert.Equal(t, service.AudioFormatFLAC, req.Format)
			assert.Equal(t, "Intro", req.SongTags[service.TagTitle])
			assert.Equal(t, "1", req.SongTags[service.TagTrackNumber])
			assert.Equal(t, "42", req.SongTags[service.TagSongID])
			assert.Equal(t, "la la la", req.Lyrics)
			require.NotNil(t, req.Cover)
			assert.Equal(t, "image/png", req.Cover.MIMEType)

			data, err := os.ReadFile(req.SongPath)
			require.NoError(t, err)
			assert.Equal(t, content, data)

			return nil
		})

	err := env.service.DownloadSongs(t.Context(), []string{"42"})
	require.NoError(t, err)

	finalPath := filepath.Join(env.cfg.OutputPath, "The Examples", "First Light", "01 - Intro.flac")
	data, err := os.ReadFile(finalPath)
	require.NoError(t, err, "Final song file should exist")
	assert.Equal(t, content, data)
	assert.Empty(t, findPartFiles(t, env.cfg.OutputPath))

	stats := env.service.Statistics()
	assert.Equal(t, int64(1), stats.SongsDownloaded)
	assert.Equal(t, int64(1), stats.TotalSongsProcessed)
	assert.Equal(t, int64(len(content)), stats.TotalBytesDownloaded)
	assert.Equal(t, int64(1), stats.CoversEmbedded)
	assert.Equal(t, int64(1), stats.LyricsEmbedded)
	assert.False(t, stats.StartTime.IsZero())
	assert.False(t, stats.EndTime.IsZero())
}

// TestDownloadSongs_ExistingFile tests the skip and replace behavior for existing files.
func TestDownloadSongs_ExistingFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		replaceSongs    bool
		expectedContent string
		expectedSkipped int64
	}{
		{
			name:            "skip",
			replaceSongs:    false,
			expectedContent: "old",
			expectedSkipped: 1,
		},
		{
			name:            "replace",
			replaceSongs:    true,
			expectedContent: "new!",
			expectedSkipped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.cfg.ReplaceSongs = tt.replaceSongs
			env.cfg.EmbedCover = false

			song := &subsonic.Song{ID: 5, Title: ptr("Outro"), Size: 4, Path: "outro.ogg"}
			finalPath := filepath.Join(env.cfg.OutputPath, "Unknown Artist", "Unknown Album", "Outro.ogg")

			require.NoError(t, os.MkdirAll(filepath.Dir(finalPath), 0o755))
			require.NoError(t, os.WriteFile(finalPath, []byte("old"), 0o600))

			env.client.EXPECT().GetSong(gomock.Any(), "5").Return(song, nil)

			if tt.replaceSongs {
				env.client.EXPECT().Download(gomock.Any(), "5").Return(downloadOf([]byte("new!")), nil)
			}

			require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"5"}))

			data, err := os.ReadFile(finalPath)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedContent, string(data))

			stats := env.service.Statistics()
			assert.Equal(t, tt.expectedSkipped, stats.SongsSkippedExists)
			assert.Equal(t, int64(1), stats.TotalSongsProcessed)
		})
	}
}

// TestDownloadSongs_ShortRead tests that an incomplete body is a stream error and leaves no files.
func TestDownloadSongs_ShortRead(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	song := testSong(8, "a/b/intro.flac")

	result := downloadOf([]byte("partial"))
	result.TotalBytes = 100

	env.client.EXPECT().GetSong(gomock.Any(), "8").Return(song, nil)
	env.client.EXPECT().Download(gomock.Any(), "8").Return(result, nil)

	require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"8"}))

	assert.Empty(t, findPartFiles(t, env.cfg.OutputPath))

	stats := env.service.Statistics()
	assert.Equal(t, int64(1), stats.SongsFailed)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "stream", stats.Errors[0].ErrorKind)
	assert.Equal(t, "downloading song", stats.Errors[0].Phase)
	assert.Equal(t, "Intro", stats.Errors[0].SongTitle)
	assert.Contains(t, stats.Errors[0].ErrorMessage, "received 7 bytes, expected 100 bytes")
}

// TestDownloadSongs_ReadFailure tests that a body failing mid-copy is a stream error.
func TestDownloadSongs_ReadFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	song := testSong(9, "intro.flac")

	readErr := errors.New("connection reset by peer")
	result := &subsonic.DownloadResult{
		Body:       io.NopCloser(io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(readErr))),
		TotalBytes: 7,
	}

	env.client.EXPECT().GetSong(gomock.Any(), "9").Return(song, nil)
	env.client.EXPECT().Download(gomock.Any(), "9").Return(result, nil)

	require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"9"}))

	stats := env.service.Statistics()
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "stream", stats.Errors[0].ErrorKind)
	assert.Contains(t, stats.Errors[0].ErrorMessage, "connection reset by peer")
	assert.Empty(t, findPartFiles(t, env.cfg.OutputPath))
}

// TestDownloadSongs_UnknownLength tests that the song size is used when the length is not announced.
func TestDownloadSongs_UnknownLength(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	song := &subsonic.Song{ID: 3, Title: ptr("Loop"), Size: 4, Path: "loop.wav"}

	result := downloadOf([]byte("wave"))
	result.TotalBytes = -1

	env.client.EXPECT().GetSong(gomock.Any(), "3").Return(song, nil)
	env.client.EXPECT().Download(gomock.Any(), "3").Return(result, nil)

	require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"3"}))

	_, err := os.Stat(filepath.Join(env.cfg.OutputPath, "Unknown Artist", "Unknown Album", "Loop.wav"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.service.Statistics().SongsDownloaded)
}

// TestDownloadSongs_ErrorPolicy tests which failures stop the remaining downloads.
func TestDownloadSongs_ErrorPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		firstErr   error
		expectStop bool
	}{
		{name: "wrong credentials", firstErr: subsonic.ErrAPIWrongAuth, expectStop: true},
		{name: "ldap user", firstErr: subsonic.ErrAPILDAP, expectStop: true},
		{name: "client must upgrade", firstErr: subsonic.ErrAPIClientMustUpgrade, expectStop: true},
		{name: "server must upgrade", firstErr: subsonic.ErrAPIServerMustUpgrade, expectStop: true},
		{name: "trial expired", firstErr: subsonic.ErrAPITrialExpired, expectStop: true},
		{name: "bad address", firstErr: &subsonic.URIError{Reason: subsonic.URIErrorReasonAddressMissing}, expectStop: true},
		{name: "not found", firstErr: subsonic.ErrAPINotFound, expectStop: false},
		{name: "not authorized", firstErr: subsonic.NewNotAuthorizedAPIError("no downloads"), expectStop: false},
		{name: "http status", firstErr: subsonic.FromStatus(502), expectStop: false},
		{name: "malformed record", firstErr: &subsonic.FieldParseError{Field: "size", Err: subsonic.ErrFieldMissing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)

			env.client.EXPECT().GetSong(gomock.Any(), "1").Return(nil, tt.firstErr)

			if !tt.expectStop {
				env.client.EXPECT().GetSong(gomock.Any(), "2").Return(nil, subsonic.ErrAPINotFound)
			}

			err := env.service.DownloadSongs(t.Context(), []string{"1", "2"})

			if tt.expectStop {
				require.ErrorIs(t, err, tt.firstErr)
				assert.True(t, service.IsSessionAborting(err))
			} else {
				require.NoError(t, err)
			}

			stats := env.service.Statistics()
			assert.Equal(t, stats.TotalSongsProcessed, stats.SongsFailed)
			assert.Equal(t, "fetching metadata", stats.Errors[0].Phase)
		})
	}
}

// TestDownloadSongs_Cancelled tests that a cancelled context stops quietly.
func TestDownloadSongs_Cancelled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.NoError(t, env.service.DownloadSongs(ctx, []string{"1", "2"}))
	assert.Zero(t, env.service.Statistics().TotalSongsProcessed)
}

// TestDownloadSongs_CancelledMidway tests that cancellation is neither counted nor recorded.
func TestDownloadSongs_CancelledMidway(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(t.Context())

	env.client.EXPECT().GetSong(gomock.Any(), "1").
		DoAndReturn(func(context.Context, string) (*subsonic.Song, error) {
			cancel()

			return nil, subsonic.FromTransport(context.Canceled)
		})

	require.NoError(t, env.service.DownloadSongs(ctx, []string{"1", "2"}))

	stats := env.service.Statistics()
	assert.Zero(t, stats.SongsFailed)
	assert.Empty(t, stats.Errors)
}

// TestDownloadSongs_Duplicates tests that repeated IDs are fetched once.
func TestDownloadSongs_Duplicates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	env.client.EXPECT().GetSong(gomock.Any(), "1").Return(nil, subsonic.ErrAPINotFound).Times(1)

	require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"1", "1", "1"}))
	assert.Equal(t, int64(1), env.service.Statistics().SongsFailed)
}

// TestDownloadSongs_TagFailure tests that a tagging failure removes the partial file.
func TestDownloadSongs_TagFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.cfg.EmbedCover = false

	song := testSong(11, "intro.mp3")
	song.Size = 3

	env.client.EXPECT().GetSong(gomock.Any(), "11").Return(song, nil)
	env.client.EXPECT().Download(gomock.Any(), "11").Return(downloadOf([]byte("ID3")), nil)
	env.client.EXPECT().GetLyrics(gomock.Any(), "The Examples", "Intro").Return(new(subsonic.Lyrics), nil)
	env.tagProcessor.EXPECT().WriteTags(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *service.WriteTagsRequest) error {
			assert.Equal(t, service.AudioFormatMP3, req.Format)
			assert.Nil(t, req.Cover)
			assert.Empty(t, req.Lyrics)

			return errors.New("broken frame")
		})

	require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"11"}))

	assert.Empty(t, findPartFiles(t, env.cfg.OutputPath))
	_, err := os.Stat(filepath.Join(env.cfg.OutputPath, "The Examples", "First Light", "01 - Intro.mp3"))
	require.ErrorIs(t, err, os.ErrNotExist)

	stats := env.service.Statistics()
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "writing tags", stats.Errors[0].Phase)
}

// TestDownloadSongs_OptionalMetadataFailures tests that cover and lyrics failures do not fail the song.
func TestDownloadSongs_OptionalMetadataFailures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	song := testSong(12, "intro.flac")

	env.client.EXPECT().GetSong(gomock.Any(), "12").Return(song, nil)
	env.client.EXPECT().Download(gomock.Any(), "12").Return(downloadOf([]byte("fLaC...")), nil)
	env.client.EXPECT().GetCoverArt(gomock.Any(), "7").Return(nil, subsonic.ErrAPINotFound)
	env.client.EXPECT().GetLyrics(gomock.Any(), "The Examples", "Intro").Return(nil, subsonic.FromStatus(500))
	env.tagProcessor.EXPECT().WriteTags(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *service.WriteTagsRequest) error {
			assert.Nil(t, req.Cover)
			assert.Empty(t, req.Lyrics)

			return nil
		})

	require.NoError(t, env.service.DownloadSongs(t.Context(), []string{"12"}))

	stats := env.service.Statistics()
	assert.Equal(t, int64(1), stats.SongsDownloaded)
	assert.Zero(t, stats.CoversEmbedded)
	assert.Zero(t, stats.LyricsEmbedded)
	assert.Empty(t, stats.Errors)
}

// TestDownloadRandomSongs tests the DownloadRandomSongs method.
func TestDownloadRandomSongs(t *testing.T) {
	t.Parallel()

	t.Run("invalid count", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		for _, count := range []int{-1, 0, 501} {
			require.ErrorIs(t, env.service.DownloadRandomSongs(t.Context(), count), service.ErrInvalidRandomSongsCount)
		}
	})

	t.Run("downloads every picked song", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		env.client.EXPECT().GetRandomSongs(gomock.Any(), 2).
			Return([]*subsonic.Song{{ID: 1}, {ID: 2}}, nil)
		env.client.EXPECT().GetSong(gomock.Any(), "1").Return(nil, subsonic.ErrAPINotFound)
		env.client.EXPECT().GetSong(gomock.Any(), "2").Return(nil, subsonic.ErrAPINotFound)

		require.NoError(t, env.service.DownloadRandomSongs(t.Context(), 2))
		assert.Equal(t, int64(2), env.service.Statistics().SongsFailed)
	})

	t.Run("partial batch", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		env.client.EXPECT().GetRandomSongs(gomock.Any(), 3).
			Return([]*subsonic.Song{{ID: 1}}, &subsonic.FieldParseError{Field: "path", Err: subsonic.ErrFieldMissing})
		env.client.EXPECT().GetSong(gomock.Any(), "1").Return(nil, subsonic.ErrAPINotFound)

		require.NoError(t, env.service.DownloadRandomSongs(t.Context(), 3))
	})

	t.Run("failed batch", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		env.client.EXPECT().GetRandomSongs(gomock.Any(), 3).Return(nil, subsonic.ErrAPIWrongAuth)

		err := env.service.DownloadRandomSongs(t.Context(), 3)
		require.ErrorIs(t, err, subsonic.ErrAPIWrongAuth)
	})
}
