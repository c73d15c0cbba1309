package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	subsonic_client "github.com/oshokin/subsonic-grabber/internal/client/subsonic"
	mock_subsonic "github.com/oshokin/subsonic-grabber/internal/client/subsonic/mocks"
	"github.com/oshokin/subsonic-grabber/internal/config"
)

// TestLogin tests the Login function.
func TestLogin(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		ServerURL: "https://music.example.com",
		Username:  "admin",
		Password:  "sesame",
	}

	saveErr := errors.New("read-only file system")

	tests := []struct {
		name        string
		pingErr     error
		saveErr     error
		expectSave  bool
		expectedErr error
	}{
		{
			name:       "accepted",
			expectSave: true,
		},
		{
			name:        "rejected credentials",
			pingErr:     subsonic_client.ErrAPIWrongAuth,
			expectedErr: subsonic_client.ErrAPIWrongAuth,
		},
		{
			name:        "save failure",
			saveErr:     saveErr,
			expectSave:  true,
			expectedErr: saveErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			client := mock_subsonic.NewMockClient(ctrl)
			client.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			var saved *config.Credentials

			err := Login(t.Context(), client, cfg, func(credentials *config.Credentials) error {
				saved = credentials

				return tt.saveErr
			})

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}

			if !tt.expectSave {
				assert.Nil(t, saved)

				return
			}

			assert.Equal(t, &config.Credentials{
				ServerURL: "https://music.example.com",
				Username:  "admin",
				Password:  "sesame",
			}, saved)
		})
	}
}
