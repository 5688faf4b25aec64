package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/deppmann/biocards/internal/server/handlers"
	"github.com/deppmann/biocards/internal/server/middleware"
	"github.com/deppmann/biocards/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()
	s.applyMiddleware(r)

	h := handlers.New(s.cache, s.logger)
	s.registerRoutes(r, h)

	return r
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Not found", req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.MethodNotAllowed(w, req.Method)
	})

	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/health", h.HandleHealth)
	r.Get("/cards.json", h.HandleCatalog)

	r.Route(s.config.PathPrefix, func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/ready", h.HandleReady)
		r.Get("/cards", h.HandleListCards)
		r.Get("/cards/{id}", h.HandleGetCard)
		r.Get("/eras", h.HandleListEras)
	})

	if s.config.ImagesDir != "" {
		images := http.StripPrefix("/cards/", http.FileServer(http.Dir(s.config.ImagesDir)))
		r.Get("/cards/*", images.ServeHTTP)
	}
}

// applyMiddleware installs the middleware chain. Request ids come first so
// every later log line carries one.
func (s *Server) applyMiddleware(r chi.Router) {
	cfg := s.config

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logger(s.logger))

	corsOptions := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}
	if len(cfg.CORSOrigins) > 0 {
		corsOptions.AllowedOrigins = cfg.CORSOrigins
	} else {
		corsOptions.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOptions))

	if cfg.RateLimit > 0 {
		r.Use(httprate.Limit(cfg.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				response.RateLimited(w, "Too many requests, slow down")
			}),
		))
	}
}
