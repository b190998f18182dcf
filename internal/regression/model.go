package regression

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// FeatureNames is the column order the model expects. California is the
// reference state and has no column of its own.
var FeatureNames = []string{
	"R&D Spend",
	"Administration",
	"Marketing Spend",
	"State_Florida",
	"State_New York",
}

// ErrNotTrained is returned when predicting with an empty model
var ErrNotTrained = errors.New("model has not been trained")

// stateDummies maps a lowercased state to its [Florida, New York] columns
var stateDummies = map[string][2]float64{
	"california": {0, 0},
	"florida":    {1, 0},
	"new york":   {0, 1},
}

// StateDummies returns the one-hot columns for state. Unknown states
// encode like the reference state.
func StateDummies(state string) [2]float64 {
	return stateDummies[strings.ToLower(strings.TrimSpace(state))]
}

// Features builds a feature row in FeatureNames order
func Features(rdSpend, administration, marketingSpend float64, state string) []float64 {
	d := StateDummies(state)
	return []float64{rdSpend, administration, marketingSpend, d[0], d[1]}
}

// Sample is one training row
type Sample struct {
	Features []float64
	Target   float64
}

// ProfitModel is a multi-linear regression of profit on spend and state
type ProfitModel struct {
	intercept    float64
	coefficients []float64
	version      string
	trained      bool
	mu           sync.RWMutex
}

// NewProfitModel creates an untrained model
func NewProfitModel() *ProfitModel {
	return &ProfitModel{}
}

// NewProfitModelWithCoefficients creates a trained model from known weights
func NewProfitModelWithCoefficients(intercept float64, coefficients []float64, version string) *ProfitModel {
	return &ProfitModel{
		intercept:    intercept,
		coefficients: padOrTruncate(coefficients, len(FeatureNames)),
		version:      version,
		trained:      true,
	}
}

// Predict runs inference on one feature row
func (m *ProfitModel) Predict(features []float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return 0, ErrNotTrained
	}

	row := padOrTruncate(features, len(m.coefficients))
	y := m.intercept
	for i, c := range m.coefficients {
		y += c * row[i]
	}
	return y, nil
}

// Fit estimates the coefficients by ordinary least squares
func (m *ProfitModel) Fit(samples []Sample) error {
	cols := len(FeatureNames) + 1
	if len(samples) < cols {
		return fmt.Errorf("need at least %d samples, got %d", cols, len(samples))
	}

	x := mat.NewDense(len(samples), cols, nil)
	y := mat.NewVecDense(len(samples), nil)
	for i, s := range samples {
		x.Set(i, 0, 1)
		for j, v := range padOrTruncate(s.Features, cols-1) {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, s.Target)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return fmt.Errorf("least squares solve failed: %w", err)
	}

	coefficients := make([]float64, cols-1)
	for j := range coefficients {
		coefficients[j] = beta.AtVec(j + 1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.intercept = beta.AtVec(0)
	m.coefficients = coefficients
	m.version = uuid.NewString()
	m.trained = true
	return nil
}

// IsTrained returns whether the model can predict
func (m *ProfitModel) IsTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Version identifies the fitted weights
func (m *ProfitModel) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// GetConfig returns a description of the model for the info endpoint
func (m *ProfitModel) GetConfig() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coefficients := make(map[string]float64, len(m.coefficients))
	for i, c := range m.coefficients {
		coefficients[FeatureNames[i]] = c
	}
	return map[string]interface{}{
		"features":     FeatureNames,
		"intercept":    m.intercept,
		"coefficients": coefficients,
		"version":      m.version,
		"trained":      m.trained,
	}
}

// modelFile is the on-disk gob layout
type modelFile struct {
	Features     []string
	Intercept    float64
	Coefficients []float64
	Version      string
	Trained      bool
}

// Save saves the model to disk
func (m *ProfitModel) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(modelFile{
		Features:     FeatureNames,
		Intercept:    m.intercept,
		Coefficients: m.coefficients,
		Version:      m.version,
		Trained:      m.trained,
	})
}

// Load loads a model from disk
func (m *ProfitModel) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var data modelFile
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	if len(data.Features) != len(FeatureNames) {
		return fmt.Errorf("model has %d features, expected %d", len(data.Features), len(FeatureNames))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.intercept = data.Intercept
	m.coefficients = padOrTruncate(data.Coefficients, len(FeatureNames))
	m.version = data.Version
	m.trained = data.Trained
	return nil
}

// LoadModel reads a saved model from path
func LoadModel(path string) (*ProfitModel, error) {
	m := NewProfitModel()
	if err := m.Load(path); err != nil {
		return nil, err
	}
	return m, nil
}

// padOrTruncate ensures a slice is exactly the right length
func padOrTruncate(data []float64, length int) []float64 {
	if len(data) == length {
		return data
	}
	result := make([]float64, length)
	copy(result, data)
	return result
}
