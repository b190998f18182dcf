package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/presets"
)

const maxHistoryLimit = 500

// handleHistory returns the most recent predictions
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to read history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleListPresets returns all saved presets
func (h *Handler) handleListPresets(w http.ResponseWriter, r *http.Request) {
	if h.presetStore == nil {
		respondJSON(w, http.StatusOK, []*presets.Preset{})
		return
	}
	list, err := h.presetStore.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// handleCreatePreset saves a new preset
func (h *Handler) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	if h.presetStore == nil {
		respondError(w, http.StatusServiceUnavailable, "Presets are not available")
		return
	}

	var p presets.Preset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid preset body")
		return
	}

	created, err := h.presetStore.Create(&p)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// handleGetPreset returns one preset
func (h *Handler) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	if h.presetStore == nil {
		respondError(w, http.StatusNotFound, presets.ErrNotFound.Error())
		return
	}
	p, err := h.presetStore.Get(mux.Vars(r)["id"])
	if errors.Is(err, presets.ErrNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// handleDeletePreset removes one preset
func (h *Handler) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if h.presetStore == nil {
		respondError(w, http.StatusNotFound, presets.ErrNotFound.Error())
		return
	}
	err := h.presetStore.Delete(mux.Vars(r)["id"])
	if errors.Is(err, presets.ErrNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
