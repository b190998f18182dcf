package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kartoza/profit-predictor/internal/cache"
	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/history"
	"github.com/kartoza/profit-predictor/internal/models"
	"github.com/kartoza/profit-predictor/internal/presets"
	"github.com/kartoza/profit-predictor/internal/regression"
)

// testModel predicts 1000 + rd + 500*florida - 500*newYork
func testModel() *regression.ProfitModel {
	return regression.NewProfitModelWithCoefficients(1000, []float64{1, 0, 0, 500, -500}, "test-v1")
}

type memoryRecorder struct {
	history.NoopRecorder
	entries []history.Entry
}

func (m *memoryRecorder) Record(_ context.Context, e *history.Entry) error {
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryRecorder) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

type stubCache struct {
	cache.NoopCache
	hit   float64
	found bool
	sets  int
}

func (s *stubCache) Get(context.Context, string, []float64) (float64, bool, error) {
	return s.hit, s.found, nil
}

func (s *stubCache) Set(context.Context, string, []float64, float64) error {
	s.sets++
	return nil
}

func newTestRouter(t *testing.T, model *regression.ProfitModel, c cache.PredictionCache, rec history.Recorder, store *presets.Store) *mux.Router {
	t.Helper()
	cfg := config.Config{
		Port:    8080,
		DataDir: t.TempDir(),
		Version: "test",
	}
	handler := NewHandler(model, c, rec, store, cfg, zaptest.NewLogger(t))
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postPredict(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, models.PredictResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.PredictResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w, resp
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, testModel(), nil, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response models.HealthResponse
	json.NewDecoder(w.Body).Decode(&response)

	if response.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", response.Status)
	}
	if !response.ModelLoaded {
		t.Error("Expected model_loaded to be true")
	}
}

func TestHealthWithoutModel(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response models.HealthResponse
	json.NewDecoder(w.Body).Decode(&response)
	if response.ModelLoaded {
		t.Error("Expected model_loaded to be false")
	}
}

func TestInfoEndpoint(t *testing.T) {
	r := newTestRouter(t, testModel(), nil, nil, nil)

	req := httptest.NewRequest("GET", "/info", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(w.Body).Decode(&response)

	if response["version"] != "test" {
		t.Errorf("Expected version 'test', got '%v'", response["version"])
	}
	if _, ok := response["model"]; !ok {
		t.Error("Expected model summary in info response")
	}
}

func TestStatesEndpoint(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/states", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var states []models.StateOption
	require.NoError(t, json.NewDecoder(w.Body).Decode(&states))
	assert.Len(t, states, 3)
	assert.Equal(t, "new york", states[0].Value)
}

func TestPredictSuccess(t *testing.T) {
	rec := &memoryRecorder{}
	r := newTestRouter(t, testModel(), nil, rec, nil)

	w, resp := postPredict(t, r, `{"rd_spend":"165349.2","administration":136897.8,"marketing_spend":"471784.1","state":"new york"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Prediction)
	assert.InDelta(t, 165849.2, *resp.Prediction, 1e-9)
	assert.Equal(t, "$165,849.20", resp.Formatted)
	require.NotNil(t, resp.Input)
	assert.Equal(t, "New York", resp.Input.State)
	assert.Equal(t, 136897.8, resp.Input.Administration)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "test-v1", rec.entries[0].ModelVersion)
	assert.False(t, rec.entries[0].Cached)
}

func TestPredictStateEncoding(t *testing.T) {
	r := newTestRouter(t, testModel(), nil, nil, nil)

	tests := []struct {
		state string
		want  float64
		label string
	}{
		{"california", 1000, "California"},
		{"FLORIDA", 1500, "Florida"},
		{"New York", 500, "New York"},
		{"texas", 1000, "Texas"},
		{"", 1000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"rd_spend": "0", "state": tt.state})
			_, resp := postPredict(t, r, string(body))
			require.True(t, resp.Success, resp.Error)
			assert.Equal(t, tt.want, *resp.Prediction)
			assert.Equal(t, tt.label, resp.Input.State)
		})
	}
}

func TestPredictMissingFieldsDefaultToZero(t *testing.T) {
	r := newTestRouter(t, testModel(), nil, nil, nil)

	_, resp := postPredict(t, r, `{}`)
	require.True(t, resp.Success)
	assert.Equal(t, 1000.0, *resp.Prediction)
	assert.Equal(t, "California", resp.Input.State)
}

func TestPredictErrors(t *testing.T) {
	tests := []struct {
		name       string
		model      *regression.ProfitModel
		body       string
		wantStatus int
		wantError  string
	}{
		{"no model", nil, `{"rd_spend":1}`, http.StatusInternalServerError, "Model not loaded. Please check server logs."},
		{"negative", testModel(), `{"rd_spend":"-1","administration":"2","marketing_spend":"3"}`, http.StatusBadRequest, "All spend values must be non-negative"},
		{"non-numeric", testModel(), `{"rd_spend":"abc"}`, http.StatusBadRequest, "Invalid input values. Please enter valid numbers."},
		{"nan", testModel(), `{"rd_spend":"NaN"}`, http.StatusBadRequest, "Invalid input values. Please enter valid numbers."},
		{"wrong type", testModel(), `{"rd_spend":{"x":1}}`, http.StatusBadRequest, "Invalid input values. Please enter valid numbers."},
		{"malformed json", testModel(), `{"rd_spend":`, http.StatusBadRequest, "Invalid input values. Please enter valid numbers."},
		{"empty string", testModel(), `{"rd_spend":"","administration":"1","marketing_spend":"2","state":"florida"}`, http.StatusBadRequest, "Invalid input values. Please enter valid numbers."},
		{"blank string", testModel(), `{"rd_spend":"1","administration":"   ","marketing_spend":"2"}`, http.StatusBadRequest, "Invalid input values. Please enter valid numbers."},
		{"null number", testModel(), `{"rd_spend":null,"administration":"1","marketing_spend":"2","state":"florida"}`, http.StatusInternalServerError, "An error occurred: rd_spend must be a string or a number, not null"},
		{"null state", testModel(), `{"rd_spend":"1","state":null}`, http.StatusInternalServerError, "An error occurred: state must be a string, not null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.model, nil, nil, nil)
			w, resp := postPredict(t, r, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Nil(t, resp.Prediction)
		})
	}
}

func TestPredictNegativeFormattedLikeService(t *testing.T) {
	model := regression.NewProfitModelWithCoefficients(-5, []float64{0, 0, 0, 0, 0}, "neg")
	r := newTestRouter(t, model, nil, nil, nil)

	_, resp := postPredict(t, r, `{"rd_spend":"1"}`)
	require.True(t, resp.Success)
	assert.Equal(t, -5.0, *resp.Prediction)
	assert.Equal(t, "$-5.00", resp.Formatted)
}

func TestPredictRoundsExactValue(t *testing.T) {
	model := regression.NewProfitModelWithCoefficients(2.675, []float64{0, 0, 0, 0, 0}, "round")
	r := newTestRouter(t, model, nil, nil, nil)

	_, resp := postPredict(t, r, `{}`)
	require.True(t, resp.Success)
	assert.Equal(t, 2.67, *resp.Prediction)
	assert.Equal(t, "$2.67", resp.Formatted)
}

func TestPredictUntrainedModel(t *testing.T) {
	r := newTestRouter(t, regression.NewProfitModel(), nil, nil, nil)
	w, resp := postPredict(t, r, `{"rd_spend":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errModelNotLoaded, resp.Error)
}

func TestPredictCacheHitSkipsModel(t *testing.T) {
	c := &stubCache{hit: 42.424, found: true}
	rec := &memoryRecorder{}
	r := newTestRouter(t, testModel(), c, rec, nil)

	_, resp := postPredict(t, r, `{"rd_spend":"10"}`)
	require.True(t, resp.Success)
	assert.Equal(t, 42.42, *resp.Prediction)
	assert.Equal(t, 0, c.sets)
	require.Len(t, rec.entries, 1)
	assert.True(t, rec.entries[0].Cached)
}

func TestPredictCacheMissStores(t *testing.T) {
	c := &stubCache{}
	r := newTestRouter(t, testModel(), c, nil, nil)

	_, resp := postPredict(t, r, `{"rd_spend":"10"}`)
	require.True(t, resp.Success)
	assert.Equal(t, 1010.0, *resp.Prediction)
	assert.Equal(t, 1, c.sets)
}

func TestHistoryEndpoint(t *testing.T) {
	rec := &memoryRecorder{entries: []history.Entry{
		{ID: "a", CreatedAt: time.Now(), Prediction: 1},
		{ID: "b", CreatedAt: time.Now(), Prediction: 2},
	}}
	r := newTestRouter(t, testModel(), nil, rec, nil)

	req := httptest.NewRequest("GET", "/history?limit=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var entries []history.Entry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)

	req = httptest.NewRequest("GET", "/history?limit=zero", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPresetEndpoints(t *testing.T) {
	store, err := presets.NewStore(t.TempDir())
	require.NoError(t, err)
	r := newTestRouter(t, testModel(), nil, nil, store)

	body := bytes.NewBufferString(`{"name":"Seed round","rd_spend":"1000","administration":"500","marketing_spend":"250","state":"florida"}`)
	req := httptest.NewRequest("POST", "/presets", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created presets.Preset
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)

	req = httptest.NewRequest("GET", "/presets/"+created.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/presets", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var list []presets.Preset
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list, 1)

	req = httptest.NewRequest("DELETE", "/presets/"+created.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("GET", "/presets/"+created.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePresetRequiresName(t *testing.T) {
	store, err := presets.NewStore(t.TempDir())
	require.NoError(t, err)
	r := newTestRouter(t, testModel(), nil, nil, store)

	req := httptest.NewRequest("POST", "/presets", strings.NewReader(`{"rd_spend":"1"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "New York", titleCase("new york"))
	assert.Equal(t, "New York", titleCase("NEW YORK"))
	assert.Equal(t, "Florida", titleCase("florida"))
}
