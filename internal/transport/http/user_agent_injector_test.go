package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/subsonic-grabber/internal/utils"
	mock_utils "github.com/oshokin/subsonic-grabber/internal/utils/mocks"
)

// TestNewUserAgentInjector tests the NewUserAgentInjector function.
func TestNewUserAgentInjector(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	injector := NewUserAgentInjector(http.DefaultTransport, mock_utils.NewMockUserAgentProvider(ctrl))

	assert.NotNil(t, injector)
	assert.Implements(t, (*http.RoundTripper)(nil), injector)
}

// TestUserAgentInjector_RoundTrip tests header injection.
func TestUserAgentInjector_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		requestAgent    string
		providerCalls   int
		expectedAgent   string
		expectUntouched bool
	}{
		{
			name:          "missing header is injected",
			providerCalls: 1,
			expectedAgent: "subsonic-grabber/test",
		},
		{
			name:            "existing header is kept",
			requestAgent:    "Custom/1.0",
			expectedAgent:   "Custom/1.0",
			expectUntouched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)

			mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
			mockProvider.EXPECT().GetUserAgent().Return("subsonic-grabber/test").Times(tt.providerCalls)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.expectedAgent, r.Header.Get("User-Agent"))
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
			require.NoError(t, err)

			if tt.requestAgent != "" {
				req.Header.Set("User-Agent", tt.requestAgent)
			}

			resp, err := NewUserAgentInjector(http.DefaultTransport, mockProvider).RoundTrip(req)
			require.NoError(t, err)

			defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			// The caller's request must not be mutated.
			assert.Equal(t, tt.requestAgent, req.Header.Get("User-Agent"))
		})
	}
}

// TestUserAgentInjector_RoundTrip_Errors tests error propagation.
func TestUserAgentInjector_RoundTrip_Errors(t *testing.T) {
	t.Parallel()

	injector := NewUserAgentInjector(http.DefaultTransport, utils.NewClientUserAgentProvider("subsonic-grabber", "test"))

	//nolint:bodyclose // No response on error.
	resp, err := injector.RoundTrip(nil)
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://[::1]:0", http.NoBody)
	require.NoError(t, err)

	resp, err = injector.RoundTrip(req) //nolint:bodyclose // Body is empty on error.
	require.Error(t, err)
	assert.Nil(t, resp)
}

// TestDefaultUserAgent tests the DefaultUserAgent function.
func TestDefaultUserAgent(t *testing.T) {
	t.Parallel()

	assert.Regexp(t, `^subsonic-grabber/\S+$`, DefaultUserAgent())
}

// TestNewUserAgentProvider tests that the configured client name is announced.
func TestNewUserAgentProvider(t *testing.T) {
	t.Parallel()

	assert.Regexp(t, `^my-jukebox/\S+$`, NewUserAgentProvider("my-jukebox").GetUserAgent())
	assert.Equal(t, DefaultUserAgent(), NewUserAgentProvider("").GetUserAgent())
}
