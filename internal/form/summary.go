package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kartoza/profit-predictor/internal/currency"
	"github.com/kartoza/profit-predictor/internal/models"
)

// StatePlaceholder is shown when no state is selected
const StatePlaceholder = "-"

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseAmount reads the longest numeric prefix of s and falls back to zero.
// It is only used for display; validation is stricter.
func parseAmount(s string) float64 {
	m := leadingNumber.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// stateLabel maps a state value to its display label
func stateLabel(value string, states []models.StateOption) string {
	for _, s := range states {
		if s.Value == value {
			return s.Label
		}
	}
	return StatePlaceholder
}

// Summarize computes the DisplaySummary for v. It never fails.
func Summarize(v Values, states []models.StateOption) DisplaySummary {
	rd := parseAmount(v.RDSpend)
	admin := parseAmount(v.Administration)
	marketing := parseAmount(v.MarketingSpend)
	total := rd + admin + marketing

	return DisplaySummary{
		RDSpend:            rd,
		Administration:     admin,
		MarketingSpend:     marketing,
		Total:              total,
		RDSpendText:        currency.Format(rd),
		AdministrationText: currency.Format(admin),
		MarketingSpendText: currency.Format(marketing),
		TotalText:          currency.Format(total),
		StateLabel:         stateLabel(v.State, states),
	}
}
