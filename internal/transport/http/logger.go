package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/logger"
	"github.com/oshokin/subsonic-grabber/internal/utils"
)

// LogTransport is an http.RoundTripper that dumps requests and responses at debug level.
// Authentication parameters are redacted from the dumps.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of a logged dump.
	maxLogLength uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewLogTransport creates and returns a new instance of LogTransport.
// A zero maxLogLength falls back to config.DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	var (
		ctx         = req.Context()
		safeURL     = RedactURL(req.URL)
		requestDump = t.dumpRequest(req)
		startTime   = time.Now()
	)

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, safeURL, err)

		return nil, err
	}

	responseDump := t.dumpResponse(resp)

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, duration, requestDump, responseDump)

	return resp, nil
}

// RedactURL returns u as a string with authentication parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	redacted := *u
	redacted.RawQuery = redactQuery(u.RawQuery)

	return redacted.String()
}

func redactQuery(rawQuery string) string {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return redactedValue
	}

	for _, key := range sensitiveQueryParams {
		if query.Has(key) {
			query.Set(key, redactedValue)
		}
	}

	return query.Encode()
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	safeRequest := req.Clone(req.Context())
	safeRequest.URL.RawQuery = redactQuery(req.URL.RawQuery)

	// Subsonic requests are bodiless GETs, so the body is not consumed here.
	dump, err := httputil.DumpRequestOut(safeRequest, false)
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	// Binary bodies (audio, covers) are never dumped.
	contentType := resp.Header.Get("Content-Type")

	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(contentType))
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}
