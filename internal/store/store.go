// Package store persists run history: one row per completed crawl.
package store

import (
	"context"
	"time"
)

// Run models one completed crawl for the run-history table.
type Run struct {
	// ID is the UUID v7 run identifier.
	ID string
	// StartedAt marks the beginning of the run, UTC.
	StartedAt time.Time
	// FinishedAt marks the end of the run, UTC.
	FinishedAt time.Time
	// UsernamesTargeted counts usernames selected after truncation.
	UsernamesTargeted int
	// UsersProcessed counts users whose archives were walked.
	UsersProcessed int
	// UsersSkipped counts users dropped after archive-index failures.
	UsersSkipped int
	// ArchivesProcessed counts monthly archives ingested.
	ArchivesProcessed int
	// ArchivesSkipped counts monthly archives that failed to fetch.
	ArchivesSkipped int
	// GamesProcessed counts game records ingested, sample included.
	GamesProcessed int
	// KeyCount is the size of the JSON key-path union.
	KeyCount int
	// TagCount is the size of the PGN tag-name union.
	TagCount int
	// ReportHash is the hex SHA-256 of the encoded report.
	ReportHash string
	// ReportJSON is the encoded report payload.
	ReportJSON []byte
}

// Store persists completed runs.
type Store interface {
	// SaveRun inserts one run row.
	SaveRun(ctx context.Context, run Run) error
	// Close releases any underlying resources.
	Close()
}

// NoOpStore discards runs. It is the default when no DSN is configured.
type NoOpStore struct{}

// SaveRun does nothing and always returns nil.
func (NoOpStore) SaveRun(_ context.Context, _ Run) error { return nil }

// Close does nothing.
func (NoOpStore) Close() {}
