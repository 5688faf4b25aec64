// Package auth reports whether Google Drive access is set up. It only
// looks at local files; no network calls are made.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/deppmann/biocards/internal/sources/drive"
)

// State represents the authorization state of an image source.
type State int

const (
	// StateConfigured means credentials and a usable token are present.
	StateConfigured State = iota
	// StateMissing means the client credentials file is missing.
	StateMissing
	// StateInvalid means credentials or token are found but unusable.
	StateInvalid
	// StateLoginRequired means credentials exist but no token has been stored yet.
	StateLoginRequired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	case StateInvalid:
		return "invalid"
	case StateLoginRequired:
		return "login required"
	}
	return "unknown"
}

// Status represents the Drive authorization status.
type Status struct {
	State   State         `json:"state"`
	Summary string        `json:"summary"` // Brief one-line summary
	Drive   *DriveDetails `json:"drive,omitempty"`
}

// DriveDetails describes the files Drive access depends on.
type DriveDetails struct {
	CredentialsFile string    `json:"credentials_file"`
	CredentialsOK   bool      `json:"credentials_ok"`
	ClientID        string    `json:"client_id,omitempty"`
	TokenFile       string    `json:"token_file"`
	HasToken        bool      `json:"has_token"`
	Refreshable     bool      `json:"refreshable"`
	Expiry          time.Time `json:"expiry,omitzero"`
}

// Checker checks Drive authorization status.
type Checker struct {
	now func() time.Time
}

// NewChecker creates a new authorization checker.
func NewChecker() *Checker {
	return &Checker{now: time.Now}
}

// CheckDrive inspects the OAuth client file and the stored token.
func (c *Checker) CheckDrive(credentialsFile, tokenFile string) *Status {
	details := &DriveDetails{
		CredentialsFile: credentialsFile,
		TokenFile:       tokenFile,
	}

	cfg, err := drive.LoadConfig(credentialsFile)
	if err != nil {
		if _, statErr := os.Stat(credentialsFile); os.IsNotExist(statErr) {
			return &Status{
				State:   StateMissing,
				Summary: fmt.Sprintf("Download OAuth desktop credentials to %s", credentialsFile),
				Drive:   details,
			}
		}
		return &Status{
			State:   StateInvalid,
			Summary: err.Error(),
			Drive:   details,
		}
	}
	details.CredentialsOK = true
	details.ClientID = cfg.ClientID

	tok, err := drive.LoadToken(tokenFile)
	if err != nil {
		return &Status{
			State:   StateInvalid,
			Summary: fmt.Sprintf("Token file unreadable, run 'biocards auth login': %v", err),
			Drive:   details,
		}
	}
	if tok == nil {
		return &Status{
			State:   StateLoginRequired,
			Summary: "Run 'biocards auth login' to authorize Drive access",
			Drive:   details,
		}
	}

	details.HasToken = true
	details.Refreshable = tok.RefreshToken != ""
	details.Expiry = tok.Expiry

	if !details.Refreshable && !tok.Expiry.IsZero() && tok.Expiry.Before(c.now()) {
		return &Status{
			State:   StateInvalid,
			Summary: "Token expired and cannot be refreshed, run 'biocards auth login'",
			Drive:   details,
		}
	}

	return &Status{
		State:   StateConfigured,
		Summary: "Drive access authorized",
		Drive:   details,
	}
}
