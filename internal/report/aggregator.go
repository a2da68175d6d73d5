// Package report aggregates observed schema facts and renders run output.
package report

import (
	"sort"
	"sync"
)

// Aggregator collects the union of JSON key paths and PGN tag names across
// every game a run observes. The engine writes while the status server
// reads counts, so access is guarded.
type Aggregator struct {
	mu   sync.RWMutex
	keys map[string]struct{}
	tags map[string]struct{}
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		keys: make(map[string]struct{}),
		tags: make(map[string]struct{}),
	}
}

// AddKeyPaths merges paths into the key-path union.
func (a *Aggregator) AddKeyPaths(paths map[string]struct{}) {
	if len(paths) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for path := range paths {
		a.keys[path] = struct{}{}
	}
}

// AddTagNames merges tags into the tag-name union.
func (a *Aggregator) AddTagNames(tags map[string]struct{}) {
	if len(tags) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for tag := range tags {
		a.tags[tag] = struct{}{}
	}
}

// Counts returns the current union sizes.
func (a *Aggregator) Counts() (keys, tags int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.keys), len(a.tags)
}

// Build snapshots the unions into a Report with both listings sorted
// ascending.
func (a *Aggregator) Build(meta Metadata) Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Report{
		JSONGameKeys: sortedSlice(a.keys),
		PGNTagKeys:   sortedSlice(a.tags),
		Metadata:     meta,
	}
}

func sortedSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
