// Package progress provides the event primitives, hub, and emitter
// interfaces the crawl engine uses to report its milestones. Events are
// validated and fanned out inline to pluggable sinks such as Prometheus
// metrics or structured logs.
package progress
