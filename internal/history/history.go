// Package history records every prediction the service serves.
package history

import (
	"context"
	"time"
)

// Entry is one served prediction
type Entry struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	RDSpend        float64   `json:"rd_spend"`
	Administration float64   `json:"administration"`
	MarketingSpend float64   `json:"marketing_spend"`
	State          string    `json:"state"`
	Prediction     float64   `json:"prediction"`
	ModelVersion   string    `json:"modelVersion"`
	Cached         bool      `json:"cached"`
}

// Recorder persists prediction history
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// NoopRecorder discards everything. Used when no database is configured.
type NoopRecorder struct{}

// NewNoopRecorder creates a recorder that keeps nothing
func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) Record(context.Context, *Entry) error { return nil }

func (*NoopRecorder) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (*NoopRecorder) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func (*NoopRecorder) Close() error { return nil }
