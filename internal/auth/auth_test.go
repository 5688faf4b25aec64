package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/deppmann/biocards/internal/sources/drive"
)

const clientSecret = `{"installed":{"client_id":"abc.apps.googleusercontent.com","client_secret":"s3cret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

func TestCheckDrive(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		credentials string
		token       *oauth2.Token
		want        State
	}{
		{name: "no credentials", want: StateMissing},
		{name: "bad credentials", credentials: "{}", want: StateInvalid},
		{name: "no token", credentials: clientSecret, want: StateLoginRequired},
		{
			name:        "refreshable token",
			credentials: clientSecret,
			token:       &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: now.Add(-time.Hour)},
			want:        StateConfigured,
		},
		{
			name:        "expired without refresh",
			credentials: clientSecret,
			token:       &oauth2.Token{AccessToken: "a", Expiry: now.Add(-time.Hour)},
			want:        StateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			creds := filepath.Join(dir, "credentials.json")
			token := filepath.Join(dir, "token.json")
			if tt.credentials != "" {
				require.NoError(t, os.WriteFile(creds, []byte(tt.credentials), 0o600))
			}
			if tt.token != nil {
				require.NoError(t, drive.SaveToken(token, tt.token))
			}

			c := &Checker{now: func() time.Time { return now }}
			status := c.CheckDrive(creds, token)

			assert.Equal(t, tt.want, status.State, status.Summary)
			assert.NotEmpty(t, status.Summary)
			require.NotNil(t, status.Drive)
			assert.Equal(t, creds, status.Drive.CredentialsFile)
		})
	}
}

func TestCheckDriveDetails(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.json")
	token := filepath.Join(dir, "token.json")
	require.NoError(t, os.WriteFile(creds, []byte(clientSecret), 0o600))
	require.NoError(t, drive.SaveToken(token, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))

	status := NewChecker().CheckDrive(creds, token)
	assert.Equal(t, "configured", status.State.String())
	assert.Equal(t, "abc.apps.googleusercontent.com", status.Drive.ClientID)
	assert.True(t, status.Drive.HasToken)
	assert.True(t, status.Drive.Refreshable)
}
