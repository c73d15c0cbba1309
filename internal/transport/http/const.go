package http

import (
	"time"

	"github.com/oshokin/subsonic-grabber/internal/config"
	"github.com/oshokin/subsonic-grabber/internal/utils"
	"github.com/oshokin/subsonic-grabber/internal/version"
)

// DefaultTimeout is the default timeout duration for metadata requests.
const DefaultTimeout = 60 * time.Second

// redactedValue replaces secrets in logged URLs.
const redactedValue = "REDACTED"

// sensitiveQueryParams are the authentication parameters that must never reach the logs.
//
//nolint:gochecknoglobals // Immutable lookup table.
var sensitiveQueryParams = []string{"p", "t", "s"}

// DefaultUserAgent returns the User-Agent announced when no client name is configured,
// e.g. "subsonic-grabber/0.1.0".
func DefaultUserAgent() string {
	return NewUserAgentProvider("").GetUserAgent()
}

// NewUserAgentProvider announces clientName and the build version.
// An empty clientName falls back to the default one.
func NewUserAgentProvider(clientName string) utils.UserAgentProvider {
	if clientName == "" {
		clientName = config.DefaultClientName
	}

	return utils.NewClientUserAgentProvider(clientName, version.Short())
}
