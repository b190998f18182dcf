// Package client posts form submissions to the prediction endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/models"
)

const maxResponseBytes = 1 << 20

// Client sends predict requests over HTTP. It implements form.Predictor.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a client for endpoint. A zero timeout waits indefinitely for
// the service, leaving cancellation to the caller's context.
func New(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger,
	}
}

// Predict posts req and decodes the JSON reply whatever the status code;
// the service reports failures inside the body. Errors are returned only
// when the exchange itself fails or the body is not the expected JSON.
func (c *Client) Predict(ctx context.Context, req models.PredictRequest) (*models.PredictResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug("prediction response", zap.Int("status", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out models.PredictResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}
