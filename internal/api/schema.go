package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// predictRequestSchema describes the shape of a prediction body. Numeric
// fields may be typed as strings because forms send raw text.
const predictRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "rd_spend":        {"type": ["number", "string", "null"]},
    "administration":  {"type": ["number", "string", "null"]},
    "marketing_spend": {"type": ["number", "string", "null"]},
    "state":           {"type": ["string", "null"]}
  }
}`

var predictSchema = gojsonschema.NewStringLoader(predictRequestSchema)

// validatePredictBody checks body against the request schema
func validatePredictBody(body []byte) error {
	result, err := gojsonschema.Validate(predictSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
