package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"stanbrief/internal/briefing"
	"stanbrief/internal/cache"
	"stanbrief/internal/config"
	"stanbrief/internal/logger"
	"stanbrief/internal/store"
)

// Server is the HTTP API over stans, briefings, and prompt customizations.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      *store.Store
	cache      *cache.Cache
	runner     *briefing.BatchRunner
	config     config.Server
	log        *slog.Logger
}

// New creates the HTTP server and wires its routes.
func New(st *store.Store, ca *cache.Cache, runner *briefing.BatchRunner, cfg config.Server) *Server {
	s := &Server{
		router: chi.NewRouter(),
		store:  st,
		cache:  ca,
		runner: runner,
		config: cfg,
		log:    logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Batch generation holds the request for the whole run, so the route
	// timeout has to be generous.
	s.router.Use(middleware.Timeout(s.config.WriteTimeout))

	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/status", s.handleStatus)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/stans", func(r chi.Router) {
			r.Get("/", s.handleListStans)
			r.Post("/", s.handleCreateStan)
			r.Get("/{id}", s.handleGetStan)
			r.Patch("/{id}", s.handleUpdateStan)
			r.Delete("/{id}", s.handleDeleteStan)
			r.Get("/{id}/briefings", s.handleStanBriefings)
		})

		r.Get("/categories", s.handleListCategories)

		r.Route("/daily-briefings", func(r chi.Router) {
			r.Get("/", s.handleDailyBriefings)
			r.Get("/{stanID}", s.handleStanDailyBriefing)
			r.Post("/{id}/read", s.handleMarkBriefingRead)
		})

		r.Route("/generate", func(r chi.Router) {
			r.Post("/", s.handleGenerate)
			r.Post("/batch", s.handleGenerateBatch)
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", s.handleGetPrompt)
			r.Post("/", s.handleSavePrompt)
			r.Delete("/", s.handleDeletePrompt)
		})
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing).
func (s *Server) Router() *chi.Mux {
	return s.router
}

// date returns the requested day key, defaulting to today in UTC.
func dateParam(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return time.Now().UTC().Format("2006-01-02")
}
