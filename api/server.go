// Package api provides the HTTP REST API server for MandiWatch.
//
// It is a thin adapter: routes call into the quotes facade and
// serialize its output to JSON. Upstream refresh failures never
// surface as 5xx here — the facade always returns the best data it
// has, empty if none exists yet.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mandiwatch/mandiwatch/internal/config"
	"github.com/mandiwatch/mandiwatch/internal/quotes"
	"github.com/mandiwatch/mandiwatch/pkg/models"
	"github.com/mandiwatch/mandiwatch/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	quotes *quotes.Service
	logger *slog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, svc *quotes.Service, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:    cfg,
		quotes: svc,
		logger: logger,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/metals", s.handleMetals)
		r.Get("/metals/{name}", s.handleMetal)
		r.Get("/bullion", s.handleBullion)
		r.Get("/news", s.handleNews)
	})

	return r
}

// --- Handlers ---

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "MandiWatch Commodities API Running",
		"endpoints": map[string]string{
			"/api/metals":        "Get all commodities",
			"/api/metals/{name}": "Get specific commodity",
			"/api/bullion":       "Get retail gold/silver rates",
			"/api/news":          "Get commodity market headlines",
		},
		"market_open": utils.IsMarketOpen(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"market_open": utils.IsMarketOpen(),
		"time_ist":    utils.FormatTimestamp(utils.NowIST()),
		"sources":     s.quotes.Status(r.Context()),
	})
}

func (s *Server) handleMetals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quotes.Metals(r.Context()))
}

func (s *Server) handleMetal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rec, err := s.quotes.Metal(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Commodity not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleBullion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quotes.Bullion(r.Context()))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.quotes.News(r.Context(), 30)
	if err != nil {
		// Degrade to an empty list; headlines are best-effort.
		s.logger.Warn("news fetch failed", "error", err)
		articles = nil
	}
	if articles == nil {
		articles = []models.NewsArticle{}
	}
	writeJSON(w, http.StatusOK, articles)
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
