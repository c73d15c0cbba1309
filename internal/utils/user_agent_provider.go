package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import "strings"

// UserAgentProvider supplies the User-Agent header of outgoing requests.
type UserAgentProvider interface {
	GetUserAgent() string
}

// ClientUserAgentProvider announces the Subsonic client name and its build, e.g. "subsonic-grabber/0.1.0".
type ClientUserAgentProvider struct {
	userAgent string
}

// NewClientUserAgentProvider builds the User-Agent from the client name sent as the "c"
// parameter and the build version. Without a version only the name is announced.
func NewClientUserAgentProvider(clientName, clientVersion string) UserAgentProvider {
	userAgent := strings.TrimSpace(clientName)
	if clientVersion = strings.TrimSpace(clientVersion); clientVersion != "" {
		userAgent += "/" + clientVersion
	}

	return &ClientUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns the User-Agent string.
func (p *ClientUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
