package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/cache"
	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/form"
	"github.com/kartoza/profit-predictor/internal/history"
	"github.com/kartoza/profit-predictor/internal/models"
	"github.com/kartoza/profit-predictor/internal/presets"
	"github.com/kartoza/profit-predictor/internal/regression"
)

// Handler provides HTTP API endpoints
type Handler struct {
	model       *regression.ProfitModel
	cache       cache.PredictionCache
	history     history.Recorder
	presetStore *presets.Store
	states      []models.StateOption
	cfg         config.Config
	logger      *zap.Logger
}

// NewHandler creates a new API handler. model, predCache, recorder and
// presetStore may all be nil; the matching features are then disabled.
func NewHandler(
	model *regression.ProfitModel,
	predCache cache.PredictionCache,
	recorder history.Recorder,
	presetStore *presets.Store,
	cfg config.Config,
	logger *zap.Logger,
) *Handler {
	if predCache == nil {
		predCache = cache.NoopCache{}
	}
	if recorder == nil {
		recorder = history.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		model:       model,
		cache:       predCache,
		history:     recorder,
		presetStore: presetStore,
		states:      form.DefaultStates,
		cfg:         cfg,
		logger:      logger,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")
	r.HandleFunc("/states", h.handleStates).Methods("GET")

	// Prediction
	r.HandleFunc("/predict", h.HandlePredict).Methods("POST")
	r.HandleFunc("/history", h.handleHistory).Methods("GET")

	// Presets
	r.HandleFunc("/presets", h.handleListPresets).Methods("GET")
	r.HandleFunc("/presets", h.handleCreatePreset).Methods("POST")
	r.HandleFunc("/presets/{id}", h.handleGetPreset).Methods("GET")
	r.HandleFunc("/presets/{id}", h.handleDeletePreset).Methods("DELETE")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("Error encoding response", zap.Error(err))
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondPredictError sends the prediction failure shape
func respondPredictError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.PredictResponse{Success: false, Error: message})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: h.modelLoaded(),
	})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":         h.cfg.Version,
		"model_loaded":    h.modelLoaded(),
		"history_enabled": h.cfg.History.Path != "",
		"cache_enabled":   h.cfg.Redis.Addr != "",
	}
	if h.model != nil {
		info["model"] = h.model.GetConfig()
	}
	respondJSON(w, http.StatusOK, info)
}

// handleStates returns the selectable states
func (h *Handler) handleStates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.states)
}

func (h *Handler) modelLoaded() bool {
	return h.model != nil && h.model.IsTrained()
}
