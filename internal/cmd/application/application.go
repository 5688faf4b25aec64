// Package application defines what command packages need from the CLI
// application. The App in cmd/biocards/app implements it; tests use Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/forms"
	"github.com/deppmann/biocards/internal/server"
)

// Application is the dependency surface shared by all commands.
type Application interface {
	// Client returns the catalog client, creating it on first use.
	Client() (biocards.Client, error)

	// Settings returns the resolved configuration.
	Settings() Settings

	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// OutputFormat returns the --format flag value, empty when unset.
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}

// Settings is the configuration commands read beyond the client itself.
type Settings struct {
	CatalogPath string
	ImagesDir   string
	Drive       Drive
	Server      server.Config
	Forms       Forms
}

// Drive holds the Google Drive settings used by sync, import and auth.
type Drive struct {
	FolderID        string
	CredentialsFile string
	TokenFile       string
}

// Forms holds the response column layouts of both submission forms.
type Forms struct {
	OnTime forms.Columns
	Late   forms.Columns
}

// Columns returns the layout for the on-time or late form.
func (f Forms) Columns(late bool) forms.Columns {
	if late {
		return f.Late
	}
	return f.OnTime
}
