package crawler

import (
	"context"
	"time"
)

// Fetcher retrieves a URL and returns its decoded JSON document.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) (any, error)
}

// Aggregator accumulates the schema unions the walk produces.
type Aggregator interface {
	AddKeyPaths(paths map[string]struct{})
	AddTagNames(names map[string]struct{})
	Counts() (keys, tags int)
}

// Pauser abstracts how the engine sleeps between game requests.
type Pauser interface {
	Pause(ctx context.Context, delay time.Duration)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
