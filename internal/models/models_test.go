package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumberAcceptsStringsAndNumbers(t *testing.T) {
	var req PredictRequest
	body := `{"rd_spend":"165349.20","administration":136897.8,"marketing_spend":null,"state":"new york"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, FlexNumber("165349.20"), req.RDSpend)
	assert.Equal(t, FlexNumber("136897.8"), req.Administration)
	assert.Equal(t, FlexNumber(""), req.MarketingSpend)

	v, err := req.Administration.Float()
	require.NoError(t, err)
	assert.Equal(t, 136897.8, v)

	_, err = req.MarketingSpend.Float()
	assert.Error(t, err)
}

func TestFlexNumberMarshalsRawText(t *testing.T) {
	out, err := json.Marshal(PredictRequest{RDSpend: "1e3", State: "florida"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rd_spend":"1e3","administration":"","marketing_spend":"","state":"florida"}`, string(out))
}

func TestFlexNumberRejectsGarbage(t *testing.T) {
	for _, raw := range []FlexNumber{"abc", "", "   "} {
		_, err := raw.Float()
		assert.Error(t, err, "%q", raw)
	}

	v, err := FlexNumber(" 12.5 ").Float()
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
}
