package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/api"
	"github.com/kartoza/profit-predictor/internal/cache"
	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/history"
	"github.com/kartoza/profit-predictor/internal/presets"
	"github.com/kartoza/profit-predictor/internal/regression"
)

//go:embed static/*
var staticFS embed.FS

// Server holds all the components for the web application
type Server struct {
	cfg         config.Config
	logger      *zap.Logger
	httpServer  *http.Server
	router      *mux.Router
	model       *regression.ProfitModel
	cache       cache.PredictionCache
	recorder    history.Recorder
	presetStore *presets.Store
}

// New creates a new Server with all components initialized. Optional
// stores that fail to open are logged and left disabled.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   mux.NewRouter(),
		cache:    cache.NoopCache{},
		recorder: history.NewNoopRecorder(),
	}

	// Load the regression model
	if cfg.ModelPath != "" {
		model, err := regression.LoadModel(cfg.ModelPath)
		if err != nil {
			logger.Warn("Model not available", zap.String("path", cfg.ModelPath), zap.Error(err))
		} else {
			s.model = model
			logger.Info("Model loaded", zap.String("path", cfg.ModelPath), zap.String("version", model.Version()))
		}
	} else {
		logger.Warn("No model path configured; predictions will fail until one is set")
	}

	// Prediction cache
	if cfg.Redis.Addr != "" {
		c, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			logger.Warn("Prediction cache not available", zap.Error(err))
		} else {
			s.cache = c
		}
	}

	// Prediction history
	if cfg.History.Path != "" {
		rec, err := history.NewSQLiteRecorder(cfg.History.Path, logger)
		if err != nil {
			logger.Warn("History store not available", zap.Error(err))
		} else {
			s.recorder = rec
		}
	}

	// Presets store
	presetStore, err := presets.NewStore(cfg.DataDir)
	if err != nil {
		logger.Warn("Presets store not available", zap.Error(err))
	} else {
		s.presetStore = presetStore
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Recorder exposes the history store so the pruning job can share it
func (s *Server) Recorder() history.Recorder {
	return s.recorder
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	// API routes
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiHandler := api.NewHandler(s.model, s.cache, s.recorder, s.presetStore, s.cfg, s.logger)
	apiHandler.RegisterRoutes(apiRouter)

	// Legacy path used by older front ends
	s.router.HandleFunc("/predict", apiHandler.HandlePredict).Methods("POST")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Server-rendered form
	page, err := newPageHandler(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("failed to build page handler: %w", err)
	}
	page.RegisterRoutes(s.router)

	// Static assets (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("could not load embedded static files: %w", err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticContent)))
	s.router.PathPrefix("/static/").Handler(assetHandler{staticContent: staticContent, fileServer: fileServer})
	return nil
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("Server listening", zap.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if s.httpServer != nil {
		errs = append(errs, s.httpServer.Shutdown(ctx))
	}

	// Close stores
	if err := s.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	if err := s.recorder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close history: %w", err))
	}
	return errors.Join(errs...)
}

// assetHandler serves embedded assets and answers 404 for anything missing
type assetHandler struct {
	staticContent fs.FS
	fileServer    http.Handler
}

func (h assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// fs.FS paths must not have a leading slash
	cleanPath := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/static"), "/")
	if cleanPath == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := fs.Stat(h.staticContent, cleanPath); err != nil {
		http.NotFound(w, r)
		return
	}
	h.fileServer.ServeHTTP(w, r)
}
