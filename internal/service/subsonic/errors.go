package subsonic

import (
	"context"
	"errors"

	"github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// Common errors for the service layer.
var (
	// ErrEmptySongPath indicates that the song file path is empty.
	ErrEmptySongPath = errors.New("song path cannot be empty")
	// ErrUnsupportedFormat indicates that tags cannot be written to the file format.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrMalformedFLAC indicates a FLAC file the parser could not read.
	ErrMalformedFLAC = errors.New("malformed FLAC file")
	// ErrInvalidRandomSongsCount indicates a random batch size outside 1..500.
	ErrInvalidRandomSongsCount = errors.New("random songs count must be between 1 and 500")
)

// sessionAbortingAPIErrors are the server answers that fail every later request too.
var sessionAbortingAPIErrors = []*subsonic.APIError{
	subsonic.ErrAPIClientMustUpgrade,
	subsonic.ErrAPIServerMustUpgrade,
	subsonic.ErrAPIWrongAuth,
	subsonic.ErrAPILDAP,
	subsonic.ErrAPITrialExpired,
}

// IsSessionAborting reports whether err makes the remaining downloads pointless:
// a bad server address, rejected credentials or an incompatible protocol.
func IsSessionAborting(err error) bool {
	if err == nil {
		return false
	}

	var uriErr *subsonic.URIError
	if errors.As(err, &uriErr) {
		return true
	}

	for _, apiErr := range sessionAbortingAPIErrors {
		if errors.Is(err, apiErr) {
			return true
		}
	}

	return false
}

// errorContext describes where a failure happened.
type errorContext struct {
	// songID is the identifier of the failed song.
	songID string
	// songTitle is the title of the failed song, when known.
	songTitle string
	// phase indicates when the error occurred.
	phase string
}

// recordError records an error in the statistics.
// Context cancellation is not an error: it is how the user stops a run.
func (s *ServiceImpl) recordError(errCtx *errorContext, err error) {
	if errCtx == nil || err == nil || errors.Is(err, context.Canceled) {
		return
	}

	kind := subsonic.ErrorKindUnknown
	if classified := subsonic.Classify(err); classified != nil {
		kind = classified.Kind()
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, DownloadError{
		SongID:       errCtx.songID,
		SongTitle:    errCtx.songTitle,
		Phase:        errCtx.phase,
		ErrorKind:    kind.String(),
		ErrorMessage: err.Error(),
	})
}

// handleError logs and records a failed song.
func (s *ServiceImpl) handleError(ctx context.Context, errCtx *errorContext, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	logger.Errorf(ctx, "%s failed for song %s: %v", errCtx.phase, errCtx.songID, err)

	s.recordError(errCtx, err)
	s.incrementSongFailed()
}
