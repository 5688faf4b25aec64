// Package serve implements the command that runs the gallery API server.
package serve

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/cmd/application"
	"github.com/deppmann/biocards/internal/server"
	"github.com/deppmann/biocards/pkg/errors"
)

// AppContext defines what the serve command needs from the app.
type AppContext interface {
	Client() (biocards.Client, error)
	Settings() application.Settings
	Logger() *zerolog.Logger
}

// NewCommand creates the serve command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "management",
		Short:   "Serve the catalog and card images over HTTP",
		Long: `Serve starts a read-only HTTP server for the gallery page.

Endpoints:
  GET /cards.json                 The catalog document as stored
  GET /cards/<file>               Card images
  GET /api/v1/cards               Cards, with ?search= &era= &sort= &limit=
  GET /api/v1/cards/{id}          One card
  GET /api/v1/eras                Era vocabulary with card counts
  GET /health, /api/v1/ready      Liveness and readiness

Catalog reads are cached briefly. Requests are rate limited per client IP.`,
		Example: `  biocards serve                          # Listen on :8080
  biocards serve --addr 127.0.0.1:3000
  biocards serve --cors-origins https://gallery.example.edu --rate-limit 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated, default any)")
	cmd.Flags().Int("rate-limit", -1, "Requests per minute per IP, 0 to disable (overrides server.rate_limit)")
	cmd.Flags().Duration("cache-ttl", 0, "Catalog cache TTL (overrides server.cache_ttl)")

	return cmd
}

// parseConfig layers command flags over the configured server settings.
func parseConfig(cmd *cobra.Command, base server.Config) (server.Config, error) {
	cfg := base
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if origins, _ := cmd.Flags().GetStringSlice("cors-origins"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if cmd.Flags().Changed("rate-limit") {
		limit, _ := cmd.Flags().GetInt("rate-limit")
		if limit < 0 {
			return cfg, errors.NewValidationError("rate-limit", limit, "must not be negative")
		}
		cfg.RateLimit = limit
	}
	if ttl, _ := cmd.Flags().GetDuration("cache-ttl"); ttl > 0 {
		cfg.CacheTTL = ttl
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, app AppContext) error {
	logger := app.Logger()

	cfg, err := parseConfig(cmd, app.Settings().Server)
	if err != nil {
		return err
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	srv, err := server.New(client, cfg, logger)
	if err != nil {
		return errors.WrapResource("create", "server", cfg.Addr, err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Str("catalog", client.CatalogPath()).
		Str("images", cfg.ImagesDir).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting gallery server")

	return srv.ListenAndServe(cmd.Context())
}
