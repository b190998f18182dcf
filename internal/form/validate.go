package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/kartoza/profit-predictor/internal/models"
)

// Validate checks that every field is filled and the amounts are finite
// numbers. The returned error is always a *ValidationError and names no field.
func Validate(v Values, states []models.StateOption) (PredictionInput, error) {
	for _, f := range Fields {
		if strings.TrimSpace(v.Get(f)) == "" {
			return PredictionInput{}, &ValidationError{Message: MsgFillAllFields}
		}
	}
	if stateLabel(v.State, states) == StatePlaceholder {
		return PredictionInput{}, &ValidationError{Message: MsgFillAllFields}
	}

	rd, ok := parseStrict(v.RDSpend)
	admin, ok2 := parseStrict(v.Administration)
	marketing, ok3 := parseStrict(v.MarketingSpend)
	if !ok || !ok2 || !ok3 {
		return PredictionInput{}, &ValidationError{Message: MsgInvalidNumbers}
	}

	return PredictionInput{
		RDSpend:        rd,
		Administration: admin,
		MarketingSpend: marketing,
		State:          v.State,
		raw:            v,
	}, nil
}

func parseStrict(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
