// Package app wires configuration, logging and the catalog client into the
// biocards command tree.
package app

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/cmd/application"
	"github.com/deppmann/biocards/internal/events"
	"github.com/deppmann/biocards/internal/server"
	"github.com/deppmann/biocards/pkg/errors"
)

// Compile-time interface check.
var _ application.Application = (*App)(nil)

// App represents the biocards application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client and its event connection (lazy-initialized, singleton)
	mu     sync.Mutex
	client biocards.Client
	conn   *nats.Conn
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Settings returns the configuration commands read.
func (a *App) Settings() application.Settings {
	c := a.config

	srv := server.DefaultConfig()
	srv.Addr = c.ServerAddr
	srv.ImagesDir = c.ImagesDir
	srv.RateLimit = c.ServerRateLimit
	srv.CORSOrigins = c.ServerAllowedOrigins
	if c.ServerCacheTTL > 0 {
		srv.CacheTTL = c.ServerCacheTTL
	}

	return application.Settings{
		CatalogPath: c.CatalogPath,
		ImagesDir:   c.ImagesDir,
		Drive: application.Drive{
			FolderID:        c.DriveFolderID,
			CredentialsFile: c.DriveCredentialsFile,
			TokenFile:       c.DriveTokenFile,
		},
		Server: srv,
		Forms: application.Forms{
			OnTime: c.OnTimeColumns,
			Late:   c.LateColumns,
		},
	}
}

// Client returns the catalog client, creating it lazily if needed.
// When an event server is configured the client's changes are published
// to it; a server that cannot be reached only costs the events.
func (a *App) Client() (biocards.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	client, err := biocards.New(
		biocards.WithCatalogPath(a.config.CatalogPath),
		biocards.WithImagesDir(a.config.ImagesDir),
		biocards.WithLogger(a.logger),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "client", a.config.CatalogPath, err)
	}

	if a.config.NATSURL != "" {
		conn, err := events.Connect(a.config.NATSURL, a.config.NATSToken)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Card events disabled")
		} else {
			events.NewBridge(conn, a.logger).Attach(client)
			a.conn = conn
			a.logger.Debug().Str("url", a.config.NATSURL).Msg("Publishing card events")
		}
	}

	a.client = client
	return client, nil
}

// Shutdown flushes pending card events and closes the event connection.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	conn := a.conn
	a.conn = nil
	a.mu.Unlock()

	if conn == nil {
		return nil
	}
	defer conn.Close()

	if err := conn.FlushWithContext(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to flush card events during shutdown")
		return err
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(client biocards.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
