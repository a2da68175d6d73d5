// Package crawler implements the sequential walk over the chess platform's
// public API: leaderboard discovery, the seeded sample archive, and the
// per-user monthly archive sweep that feeds the schema aggregator.
package crawler
