package handlers

import (
	"net/http"
	"time"

	"github.com/deppmann/biocards/internal/server/response"
)

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "biocards-gallery",
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the
// catalog can be read.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.cache.Catalog(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Catalog not available")
		response.ServiceUnavailable(w, "Catalog not available")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"cards":  catalog.Len(),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}
