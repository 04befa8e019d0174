package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/docdrop/internal/api/middlewares"
	"github.com/markdave123-py/docdrop/internal/config"
	"github.com/markdave123-py/docdrop/internal/core"
	"github.com/markdave123-py/docdrop/internal/i18n"
	"github.com/markdave123-py/docdrop/internal/observability"
	"github.com/markdave123-py/docdrop/internal/services"
)

// Deps are the components the HTTP layer serves.
type Deps struct {
	DB         core.DbClient
	Selections *services.SelectionService
	Documents  *services.DocumentService
	Bundle     *i18n.Bundle
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, logger *zap.Logger, d Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, logger, d),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter builds the route tree.
func NewRouter(cfg *config.Config, logger *zap.Logger, d Deps) http.Handler {
	selectionHandler := handlers.NewSelectionHandler(d.Selections, d.Bundle, cfg.MaxUploadMB, logger)
	docHandler := handlers.NewDocumentHandler(d.Documents, cfg.MaxUploadMB, logger)
	pageHandler := handlers.NewPageHandler(d.Selections, d.Documents, d.Bundle, cfg.MaxUploadMB, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	limit := httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute)

	// API routes
	r.Route("/api", func(api chi.Router) {
		if cfg.AuthEnabled() {
			api.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret, logger))
		}

		api.Get("/selections/{id}", selectionHandler.Get)
		api.Get("/selections/{id}/documents", docHandler.ListBySelection)
		api.Get("/documents/{id}", docHandler.GetDocument)
		api.Get("/documents/{id}/original", docHandler.Original)

		// mutating endpoints
		api.Group(func(m chi.Router) {
			m.Use(limit)
			m.Post("/selections", selectionHandler.Create)
			m.Delete("/selections/{id}", docHandler.DeleteSelection)
			m.Put("/selections/{id}/files", selectionHandler.ReplaceFiles)
			m.Delete("/selections/{id}/files", selectionHandler.ClearFiles)
			m.Post("/selections/{id}/extract", docHandler.ExtractSelection)
			m.Post("/extract", docHandler.ExtractUpload)
		})
	})

	// HTML form flow
	r.Get("/selections/{id}", pageHandler.Show)
	r.Group(func(m chi.Router) {
		m.Use(limit)
		m.Post("/selections/{id}/files", pageHandler.Upload)
		m.Post("/selections/{id}/clear", pageHandler.Clear)
		m.Post("/selections/{id}/extract", pageHandler.Extract)
	})

	r.Get("/healthz", healthz(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func healthz(db core.DbClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
