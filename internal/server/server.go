// Package server provides the HTTP API for Shikisai.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/shikisai/internal/analyzer"
	"github.com/hyperjump/shikisai/internal/config"
	"github.com/hyperjump/shikisai/internal/storage"
)

// WatchService is the part of the directory watcher the API drives.
type WatchService interface {
	AddDirectory(root string, scanExisting bool) error
	RemoveDirectory(root string) error
	Directories() []string
}

// Server is the HTTP server for the Shikisai API.
type Server struct {
	analyzer   *analyzer.Analyzer
	journal    storage.Journal
	cfg        *config.Config
	logger     *zap.Logger
	server     *http.Server
	watch      WatchService
	configPath string
	cfgMu      sync.Mutex
}

// NewServer creates a server with the given dependencies. journal may be
// nil, in which case status reports zero analyzed files.
func NewServer(a *analyzer.Analyzer, journal storage.Journal, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		analyzer: a,
		journal:  journal,
		cfg:      cfg,
		logger:   logger,
	}
}

// EnableWatch attaches a directory watcher to the API. configPath, when
// non-empty, is the config file watch changes are persisted to.
func (s *Server) EnableWatch(watch WatchService, configPath string) {
	s.watch = watch
	s.configPath = configPath
}

// Handler builds the HTTP routing for the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Post("/api/v1/detect", s.handleDetect)
	r.Post("/api/v1/ocr", s.handleOCR)
	r.Post("/api/v1/search/semantic", s.handleSemanticSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
