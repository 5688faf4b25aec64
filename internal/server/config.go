package server

import (
	"time"

	"github.com/deppmann/biocards/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Listen address, host:port
	Addr string

	// API settings
	PathPrefix string

	// ImagesDir is served under /cards/. Empty disables image serving.
	ImagesDir string

	// CORS origins; empty allows any origin
	CORSOrigins []string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         constants.DefaultServerAddr,
		PathPrefix:   constants.APIPrefix,
		ImagesDir:    constants.DefaultImagesDir,
		CORSOrigins:  []string{},
		RateLimit:    constants.DefaultRateLimit,
		CacheTTL:     constants.CatalogCacheTTL,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
