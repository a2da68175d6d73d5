// Package storage defines blob sinks for crawl reports.
// The abstraction keeps the run independent of where the report lands
// (Google Cloud Storage, the local filesystem, or nowhere at all).
package storage

import (
	"context"
)

// Provider defines the common interface for a report blob sink.
// It abstracts the operation of saving data.
type Provider interface {
	// Save writes data under the given object name.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider is a storage provider that performs no operations.
// It is the default archive sink when no GCS bucket is configured.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
