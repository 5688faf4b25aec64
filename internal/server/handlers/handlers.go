// Package handlers provides HTTP request handlers for the gallery API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/deppmann/biocards/internal/server/cache"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	cache     *cache.Cache
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(cache *cache.Cache, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		cache:     cache,
		logger:    logger,
		startTime: time.Now(),
	}
}
