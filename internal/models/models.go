package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PredictRequest is the body posted to the prediction endpoint. Numeric
// fields carry the raw form values, so they may arrive as strings or numbers.
type PredictRequest struct {
	RDSpend        FlexNumber `json:"rd_spend"`
	Administration FlexNumber `json:"administration"`
	MarketingSpend FlexNumber `json:"marketing_spend"`
	State          string     `json:"state"`
}

// PredictResponse is returned by the prediction endpoint
type PredictResponse struct {
	Success    bool          `json:"success"`
	Prediction *float64      `json:"prediction,omitempty"`
	Formatted  string        `json:"formatted,omitempty"`
	Error      string        `json:"error,omitempty"`
	Input      *PredictInput `json:"input,omitempty"`
}

// PredictInput echoes the normalized values the model was fed
type PredictInput struct {
	RDSpend        float64 `json:"rd_spend"`
	Administration float64 `json:"administration"`
	MarketingSpend float64 `json:"marketing_spend"`
	State          string  `json:"state"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// StateOption is a selectable region
type StateOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FlexNumber holds a JSON value that is either a number or a string. The raw
// text is kept verbatim so the outbound request mirrors what was typed.
type FlexNumber string

// MarshalJSON writes the raw text as a JSON string
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// UnmarshalJSON accepts numbers, strings, and null
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("flex number: %w", err)
	}
	*n = FlexNumber(num.String())
	return nil
}

// Float parses the value. Surrounding whitespace is ignored; empty text is
// an error.
func (n FlexNumber) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
}
