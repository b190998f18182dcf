package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/currency"
	"github.com/kartoza/profit-predictor/internal/history"
	"github.com/kartoza/profit-predictor/internal/metrics"
	"github.com/kartoza/profit-predictor/internal/models"
	"github.com/kartoza/profit-predictor/internal/regression"
)

const (
	errModelNotLoaded = "Model not loaded. Please check server logs."
	errInvalidInput   = "Invalid input values. Please enter valid numbers."
	errNegativeInput  = "All spend values must be non-negative"

	defaultState = "california"
	maxBodyBytes = 1 << 20
)

var (
	errNegative  = errors.New("negative spend")
	errNotNumber = errors.New("not a number")
)

// predictBody keeps each field raw so an absent key can be told apart from
// an empty string or null.
type predictBody struct {
	RDSpend        json.RawMessage `json:"rd_spend"`
	Administration json.RawMessage `json:"administration"`
	MarketingSpend json.RawMessage `json:"marketing_spend"`
	State          json.RawMessage `json:"state"`
}

// HandlePredict serves a single profit prediction. It is exported so the
// server can mount it at the legacy /predict path as well.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	if !h.modelLoaded() {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeNoModel).Inc()
		respondPredictError(w, http.StatusInternalServerError, errModelNotLoaded)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.failInternal(w, err)
		return
	}

	if err := validatePredictBody(body); err != nil {
		h.logger.Debug("rejected predict body", zap.Error(err))
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		respondPredictError(w, http.StatusBadRequest, errInvalidInput)
		return
	}
	var req predictBody
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		respondPredictError(w, http.StatusBadRequest, errInvalidInput)
		return
	}

	input, err := parseInput(req)
	switch {
	case errors.Is(err, errNegative):
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeNegative).Inc()
		respondPredictError(w, http.StatusBadRequest, errNegativeInput)
		return
	case errors.Is(err, errNotNumber):
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		respondPredictError(w, http.StatusBadRequest, errInvalidInput)
		return
	case err != nil:
		h.failInternal(w, err)
		return
	}

	features := regression.Features(input.RDSpend, input.Administration, input.MarketingSpend, input.State)
	version := h.model.Version()
	ctx := r.Context()

	prediction, cached, err := h.cache.Get(ctx, version, features)
	if err != nil {
		h.logger.Warn("prediction cache lookup failed", zap.Error(err))
		metrics.CacheLookups.WithLabelValues("error").Inc()
	} else if cached {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	if !cached {
		prediction, err = h.model.Predict(features)
		if err != nil {
			h.failInternal(w, err)
			return
		}
		if err := h.cache.Set(ctx, version, features, prediction); err != nil {
			h.logger.Warn("prediction cache store failed", zap.Error(err))
		}
	}

	prediction = currency.Round2(prediction)

	entry := &history.Entry{
		RDSpend:        input.RDSpend,
		Administration: input.Administration,
		MarketingSpend: input.MarketingSpend,
		State:          input.State,
		Prediction:     prediction,
		ModelVersion:   version,
		Cached:         cached,
	}
	if err := h.history.Record(ctx, entry); err != nil {
		h.logger.Warn("failed to record prediction", zap.Error(err))
	}

	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	respondJSON(w, http.StatusOK, models.PredictResponse{
		Success:    true,
		Prediction: &prediction,
		Formatted:  currency.FormatReported(prediction),
		Input:      input,
	})
}

func (h *Handler) failInternal(w http.ResponseWriter, err error) {
	h.logger.Error("prediction failed", zap.Error(err))
	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	respondPredictError(w, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
}

// parseInput converts the raw request into model inputs. Absent numbers
// are zero and an absent state is the reference state. Present values must
// parse: empty text is not a number, and null is an internal failure.
func parseInput(req predictBody) (*models.PredictInput, error) {
	fields := []struct {
		name string
		raw  json.RawMessage
	}{
		{"rd_spend", req.RDSpend},
		{"administration", req.Administration},
		{"marketing_spend", req.MarketingSpend},
	}

	var values [3]float64
	for i, f := range fields {
		v, err := parseNumber(f.name, f.raw)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	for _, v := range values {
		if v < 0 {
			return nil, errNegative
		}
	}

	state := defaultState
	if len(req.State) > 0 {
		if isNull(req.State) {
			return nil, fmt.Errorf("state must be a string, not null")
		}
		if err := json.Unmarshal(req.State, &state); err != nil {
			return nil, fmt.Errorf("state: %w", err)
		}
	}

	return &models.PredictInput{
		RDSpend:        values[0],
		Administration: values[1],
		MarketingSpend: values[2],
		State:          titleCase(strings.ToLower(state)),
	}, nil
}

func parseNumber(name string, raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	if isNull(raw) {
		return 0, fmt.Errorf("%s must be a string or a number, not null", name)
	}

	var n models.FlexNumber
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%s: %w", name, errNotNumber)
	}
	v, err := n.Float()
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q: %w", name, string(n), errNotNumber)
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// titleCase upper-cases the first letter of every word and lower-cases the rest
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
