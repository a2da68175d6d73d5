// Package notify publishes run-completion messages so downstream consumers
// can react to a fresh schema report without polling the bucket.
package notify

import (
	"context"
	"time"
)

// Completion is the message payload published when a run finishes.
type Completion struct {
	RunID          string    `json:"run_id"`
	ReportObject   string    `json:"report_object"`
	ReportHash     string    `json:"report_hash"`
	KeyCount       int       `json:"key_count"`
	TagCount       int       `json:"tag_count"`
	GamesProcessed int       `json:"games_processed"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Publisher announces completed runs.
type Publisher interface {
	// Publish sends one completion message.
	Publish(ctx context.Context, completion Completion) error
	// Close releases the underlying connection.
	Close() error
}

// NoOpPublisher drops completions. It is the default when no topic is
// configured.
type NoOpPublisher struct{}

// Publish does nothing and always returns nil.
func (NoOpPublisher) Publish(_ context.Context, _ Completion) error { return nil }

// Close does nothing.
func (NoOpPublisher) Close() error { return nil }
