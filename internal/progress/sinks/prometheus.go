package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/chess-schema-crawler/internal/progress"
)

// PrometheusSink exports crawl progress via Prometheus. It owns the
// collectors for run outcomes, per-stage latencies, walk counters, and the
// live union sizes.
type PrometheusSink struct {
	runsCompleted *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	usersProcessed    prometheus.Counter
	usersSkipped      prometheus.Counter
	archivesProcessed prometheus.Counter
	archivesSkipped   prometheus.Counter
	gamesProcessed    prometheus.Counter
	fetchRetries      prometheus.Counter

	keyPaths prometheus.Gauge
	tagNames prometheus.Gauge
}

// NewPrometheusSink registers the collectors against the provided registry.
// A nil registerer falls back to the process-wide default.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schema_crawler_runs_completed_total",
			Help: "Total runs completed partitioned by result.",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schema_crawler_stage_duration_seconds",
			Help:    "Latency of completed crawl stages.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"stage"}),
		usersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schema_crawler_users_processed_total",
			Help: "Users whose archives were walked.",
		}),
		usersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schema_crawler_users_skipped_total",
			Help: "Users skipped because their archive list could not be fetched.",
		}),
		archivesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schema_crawler_archives_processed_total",
			Help: "Monthly archives ingested.",
		}),
		archivesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schema_crawler_archives_skipped_total",
			Help: "Monthly archives skipped after fetch or decode failures.",
		}),
		gamesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schema_crawler_games_processed_total",
			Help: "Game records flattened into the union.",
		}),
		fetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schema_crawler_fetch_retries_total",
			Help: "HTTP attempts that failed and were retried.",
		}),
		keyPaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schema_crawler_key_paths",
			Help: "Current size of the JSON key-path union.",
		}),
		tagNames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schema_crawler_pgn_tags",
			Help: "Current size of the PGN tag-name union.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsCompleted,
		s.stageDuration,
		s.usersProcessed,
		s.usersSkipped,
		s.archivesProcessed,
		s.archivesSkipped,
		s.gamesProcessed,
		s.fetchRetries,
		s.keyPaths,
		s.tagNames,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from one event. Safe for concurrent use.
func (s *PrometheusSink) Consume(_ context.Context, evt progress.Event) error {
	switch evt.Stage {
	case progress.StageUserDone:
		s.usersProcessed.Inc()
	case progress.StageUserSkip:
		s.usersSkipped.Inc()
	case progress.StageArchiveDone:
		s.archivesProcessed.Inc()
		s.gamesProcessed.Add(float64(evt.Count))
	case progress.StageArchiveSkip:
		s.archivesSkipped.Inc()
	case progress.StageSampleDone:
		s.gamesProcessed.Add(float64(evt.Count))
	case progress.StageFetchRetry:
		s.fetchRetries.Inc()
	case progress.StageRunDone:
		s.runsCompleted.WithLabelValues("success").Inc()
	case progress.StageRunError:
		s.runsCompleted.WithLabelValues("error").Inc()
	}
	if evt.Keys > 0 {
		s.keyPaths.Set(float64(evt.Keys))
	}
	if evt.Tags > 0 {
		s.tagNames.Set(float64(evt.Tags))
	}
	if evt.Dur > 0 {
		s.stageDuration.WithLabelValues(string(evt.Stage)).Observe(evt.Dur.Seconds())
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
