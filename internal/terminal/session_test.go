package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/kartoza/profit-predictor/internal/form"
	"github.com/kartoza/profit-predictor/internal/models"
	"github.com/kartoza/profit-predictor/internal/presets"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	defaults     []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) output() string {
	return strings.Join(s.infoMessages, "\n")
}

type stubPredictor struct {
	requests []models.PredictRequest
	resp     *models.PredictResponse
	err      error
}

func (p *stubPredictor) Predict(_ context.Context, req models.PredictRequest) (*models.PredictResponse, error) {
	p.requests = append(p.requests, req)
	return p.resp, p.err
}

func successResponse(v float64, formatted string) *models.PredictResponse {
	return &models.PredictResponse{Success: true, Prediction: &v, Formatted: formatted}
}

func newTestSession(t *testing.T, driver PromptDriver, predictor form.Predictor, store *presets.Store) *Session {
	t.Helper()
	return NewSession(driver, predictor, store, form.Options{Logger: zaptest.NewLogger(t)})
}

func TestRunSinglePrediction(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1000", "2000", "3000"},
		selectIdx: []int{2},
		confirm:   []bool{false},
	}
	predictor := &stubPredictor{resp: successResponse(12345.67, "$12,345.67")}
	s := newTestSession(t, driver, predictor, nil)

	require.NoError(t, s.Run(context.Background(), ""))

	require.Len(t, predictor.requests, 1)
	assert.Equal(t, models.FlexNumber("1000"), predictor.requests[0].RDSpend)
	assert.Equal(t, "florida", predictor.requests[0].State)

	out := driver.output()
	assert.Contains(t, out, "✔ Prediction generated successfully!")
	assert.Contains(t, out, "Total Spend:     $6,000.00")
	assert.Contains(t, out, "State:           Florida")
	assert.Contains(t, out, "Predicted profit: $12,345.67")
}

func TestRunValidationErrorSkipsRequest(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1000", "lots", "3000"},
		selectIdx: []int{0},
		confirm:   []bool{false},
	}
	predictor := &stubPredictor{resp: successResponse(1, "")}
	s := newTestSession(t, driver, predictor, nil)

	require.NoError(t, s.Run(context.Background(), ""))

	assert.Empty(t, predictor.requests)
	assert.Contains(t, driver.output(), "✖ Please enter valid numbers")
	assert.NotContains(t, driver.output(), "Predicted profit")
}

func TestRunAnotherRoundResets(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1", "2", "3", "4", "5", "6"},
		selectIdx: []int{1, 0},
		confirm:   []bool{true, false},
	}
	predictor := &stubPredictor{resp: successResponse(10, "")}
	s := newTestSession(t, driver, predictor, nil)

	require.NoError(t, s.Run(context.Background(), ""))

	require.Len(t, predictor.requests, 2)
	assert.Equal(t, "california", predictor.requests[0].State)
	assert.Equal(t, "new york", predictor.requests[1].State)
	// second round starts from an empty form
	assert.Equal(t, []string{"", "", "", "", "", ""}, driver.defaults)
	assert.Contains(t, driver.output(), "Predicted profit: $10.00")
}

func TestRunTransportError(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1", "2", "3"},
		selectIdx: []int{0},
		confirm:   []bool{false},
	}
	predictor := &stubPredictor{err: errors.New("connection refused")}
	s := newTestSession(t, driver, predictor, nil)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Contains(t, driver.output(), "✖ Network error. Please check if the server is running.")
}

func TestRunFromPreset(t *testing.T) {
	store, err := presets.NewStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Create(&presets.Preset{
		Name:           "Series A",
		RDSpend:        "500",
		Administration: "600",
		MarketingSpend: "700",
		State:          "florida",
	})
	require.NoError(t, err)

	driver := &stubDriver{
		inputs:    []string{"500", "600", "700"},
		selectIdx: []int{2},
		confirm:   []bool{false},
	}
	predictor := &stubPredictor{resp: successResponse(1, "")}
	s := newTestSession(t, driver, predictor, store)

	require.NoError(t, s.Run(context.Background(), "series a"))
	assert.Equal(t, []string{"500", "600", "700"}, driver.defaults)
}

func TestRunUnknownPreset(t *testing.T) {
	store, err := presets.NewStore(t.TempDir())
	require.NoError(t, err)

	s := newTestSession(t, &stubDriver{}, &stubPredictor{}, store)
	err = s.Run(context.Background(), "missing")
	assert.ErrorContains(t, err, `preset "missing" not found`)
}

func TestRunAbortStops(t *testing.T) {
	s := newTestSession(t, &stubDriver{}, &stubPredictor{}, nil)
	err := s.Run(context.Background(), "")
	assert.ErrorContains(t, err, "no input scripted")
}
