package form

import (
	"github.com/kartoza/profit-predictor/internal/models"
)

// Field names one of the form inputs. The values double as the JSON keys of
// the outbound request.
type Field string

const (
	FieldRDSpend        Field = "rd_spend"
	FieldAdministration Field = "administration"
	FieldMarketingSpend Field = "marketing_spend"
	FieldState          Field = "state"
)

// Fields lists every input in display order
var Fields = []Field{FieldRDSpend, FieldAdministration, FieldMarketingSpend, FieldState}

// DefaultStates are the regions the model was trained on. Values are the
// identifiers sent to the service; labels are shown to the user.
var DefaultStates = []models.StateOption{
	{Value: "new york", Label: "New York"},
	{Value: "california", Label: "California"},
	{Value: "florida", Label: "Florida"},
}

// Values holds the raw, unvalidated text of the form fields
type Values struct {
	RDSpend        string
	Administration string
	MarketingSpend string
	State          string
}

// Get returns the raw value of a field
func (v Values) Get(f Field) string {
	switch f {
	case FieldRDSpend:
		return v.RDSpend
	case FieldAdministration:
		return v.Administration
	case FieldMarketingSpend:
		return v.MarketingSpend
	case FieldState:
		return v.State
	}
	return ""
}

// With returns a copy of v with one field replaced
func (v Values) With(f Field, value string) Values {
	switch f {
	case FieldRDSpend:
		v.RDSpend = value
	case FieldAdministration:
		v.Administration = value
	case FieldMarketingSpend:
		v.MarketingSpend = value
	case FieldState:
		v.State = value
	}
	return v
}

// PredictionInput is a validated snapshot of the form, created fresh for
// every submission.
type PredictionInput struct {
	RDSpend        float64
	Administration float64
	MarketingSpend float64
	State          string

	raw Values
}

// Request serializes the input. Numeric fields are sent exactly as typed.
func (in PredictionInput) Request() models.PredictRequest {
	return models.PredictRequest{
		RDSpend:        models.FlexNumber(in.raw.RDSpend),
		Administration: models.FlexNumber(in.raw.Administration),
		MarketingSpend: models.FlexNumber(in.raw.MarketingSpend),
		State:          in.raw.State,
	}
}

// DisplaySummary is the read-only projection of the current fields shown
// next to the form.
type DisplaySummary struct {
	RDSpend        float64
	Administration float64
	MarketingSpend float64
	Total          float64

	RDSpendText        string
	AdministrationText string
	MarketingSpendText string
	TotalText          string
	StateLabel         string
}

// Result is a successful prediction as displayed
type Result struct {
	Prediction float64
	Formatted  string
	Display    string
}
