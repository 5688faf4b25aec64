// Package server provides the HTTP server for the card gallery API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/internal/server/cache"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
)

// Client is the part of the biocards client the server reads from.
type Client interface {
	biocards.Catalog
	biocards.Hooks
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	client Client
	cache  *cache.Cache
	logger *zerolog.Logger
	config Config
}

// New creates a new server instance with the given configuration.
func New(client Client, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if client == nil {
		return nil, errors.NewConfigError("server", "client is required", nil)
	}
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultServerAddr
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = constants.APIPrefix
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.CatalogCacheTTL
	}

	s := &Server{
		client: client,
		cache:  cache.New(client.Catalog, cfg.CacheTTL, constants.CacheCleanupInterval),
		logger: logger,
		config: cfg,
	}
	s.connectHooks()

	logger.Debug().
		Str("addr", cfg.Addr).
		Dur("cache_ttl", cfg.CacheTTL).
		Int("rate_limit", cfg.RateLimit).
		Msg("Server instance created")
	return s, nil
}

// connectHooks drops cached catalogs whenever this process changes a card.
// Changes made by other processes show up once the cache entry expires.
func (s *Server) connectHooks() {
	s.client.OnCardAdded(func(card cards.Card) {
		s.cache.Invalidate()
		s.logger.Debug().Str("card_id", card.ID).Msg("Cache invalidated after card added")
	})
	s.client.OnCardUpdated(func(_, card cards.Card) {
		s.cache.Invalidate()
		s.logger.Debug().Str("card_id", card.ID).Msg("Cache invalidated after card updated")
	})
	s.client.OnCardRemoved(func(card cards.Card) {
		s.cache.Invalidate()
		s.logger.Debug().Str("card_id", card.ID).Msg("Cache invalidated after card removed")
	})
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// ListenAndServe serves until ctx is canceled, then drains open
// connections for up to constants.ServerShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("Gallery server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down gallery server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapResource("shutdown", "server", s.config.Addr, err)
	}
	s.logger.Info().Dur("took", time.Since(start)).Msg("Gallery server stopped")
	return nil
}
