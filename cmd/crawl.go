// Package cmd defines and implements the CLI commands for the schemacrawler executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/chess-schema-crawler/internal/api"
	"github.com/JakeFAU/chess-schema-crawler/internal/clock/system"
	"github.com/JakeFAU/chess-schema-crawler/internal/crawler"
	"github.com/JakeFAU/chess-schema-crawler/internal/fetcher"
	"github.com/JakeFAU/chess-schema-crawler/internal/hash/sha256"
	idgen "github.com/JakeFAU/chess-schema-crawler/internal/id/uuid"
	"github.com/JakeFAU/chess-schema-crawler/internal/metrics"
	"github.com/JakeFAU/chess-schema-crawler/internal/notify"
	"github.com/JakeFAU/chess-schema-crawler/internal/progress"
	"github.com/JakeFAU/chess-schema-crawler/internal/progress/sinks"
	"github.com/JakeFAU/chess-schema-crawler/internal/report"
	"github.com/JakeFAU/chess-schema-crawler/internal/store"
)

// newCrawlCmd creates and configures the 'crawl' subcommand. It runs one
// full walk over the configured endpoints and writes the schema report.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs a schema inventory crawl",
		Long: `Walks the chess.com public API: leaderboard players first, then each
player's recent monthly archives. Every game record is flattened into the
JSON key-path union and its PGN tag names are collected. The run ends by
writing the combined schema report.`,

		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}

	runID, err := idgen.New().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger := appInstance.GetLogger().With(zap.String("run_id", runID))
	clk := system.New()

	// Progress pipeline: structured logs always, Prometheus collectors for
	// the status server.
	registry := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return fmt.Errorf("init prometheus sink: %w", err)
	}
	hub := progress.NewHub(logger, sinks.NewLogSink(logger), promSink)
	defer func() {
		if cerr := hub.Close(context.Background()); cerr != nil {
			logger.Warn("Progress hub close failed", zap.Error(cerr))
		}
	}()

	fetchClient := fetcher.New(fetcher.Config{
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.RequestTimeout,
		MaxAttempts:   cfg.MaxFetchAttempts,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		RespectRobots: cfg.RespectRobots,
		RetryHook: func(url string, attempt int, wait time.Duration, cause error) {
			hub.Emit(cmd.Context(), progress.Event{
				RunID: runID,
				TS:    clk.Now(),
				Stage: progress.StageFetchRetry,
				URL:   url,
				Count: attempt,
				Dur:   wait,
				Note:  cause.Error(),
			})
		},
	}, logger)

	agg := report.NewAggregator()
	engine := crawler.NewEngine(cfg, runID, fetchClient, agg, &crawler.TimerPauser{}, clk, hub, logger)

	startedAt := clk.Now()

	// The status server reports live union sizes while the walk runs.
	svcCfg := appInstance.GetConfig()
	serverErr := make(chan error, 1)
	serverCtx, stopServer := context.WithCancel(cmd.Context())
	defer stopServer()
	if svcCfg.Metrics.Enabled {
		httpMetrics, merr := metrics.NewHTTP(registry)
		if merr != nil {
			return fmt.Errorf("init http metrics: %w", merr)
		}
		statusServer := api.NewServer(api.RunInfo{
			RunID:            runID,
			StartedAt:        startedAt,
			MaxUsers:         cfg.MaxUsers,
			MaxMonthsPerUser: cfg.MaxMonthsPerUser,
			IncludeSample:    cfg.IncludeSample,
		}, agg, registry, httpMetrics, logger)
		go func() {
			serverErr <- statusServer.Serve(serverCtx, svcCfg.Metrics.Addr())
		}()
	}

	stats, runErr := engine.Run(cmd.Context())
	finishedAt := clk.Now()
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		logger.Warn("Crawl interrupted; no report written",
			zap.Int("games_processed", stats.GamesProcessed))
		return nil
	default:
		return fmt.Errorf("run crawler: %w", runErr)
	}

	rep := agg.Build(report.Metadata{
		UserCount:          stats.UsernamesTargeted,
		MaxMonthsPerUser:   cfg.MaxMonthsPerUser,
		IncludedErikSample: cfg.IncludeSample,
		RunID:              runID,
		GeneratedAt:        finishedAt,
	})
	data, err := rep.Encode()
	if err != nil {
		return err
	}
	digest := sha256.New().Hash(data)

	// The local report file is the run's contract; failing to write it
	// fails the command.
	objectName := svcCfg.Report.Object
	if err := appInstance.GetLocalStore().Save(cmd.Context(), objectName, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("Report written",
		zap.String("object", objectName),
		zap.String("sha256", digest),
	)

	// Upload, run history, and notification are side channels; their
	// failures degrade the run but keep the report.
	if err := appInstance.GetRemoteStore().Save(cmd.Context(), objectName, data); err != nil {
		logger.Warn("Report upload failed", zap.Error(err))
	}

	keys, tags := agg.Counts()
	if err := appInstance.GetRunStore().SaveRun(cmd.Context(), store.Run{
		ID:                runID,
		StartedAt:         startedAt,
		FinishedAt:        finishedAt,
		UsernamesTargeted: stats.UsernamesTargeted,
		UsersProcessed:    stats.UsersProcessed,
		UsersSkipped:      stats.UsersSkipped,
		ArchivesProcessed: stats.ArchivesProcessed,
		ArchivesSkipped:   stats.ArchivesSkipped,
		GamesProcessed:    stats.GamesProcessed,
		KeyCount:          keys,
		TagCount:          tags,
		ReportHash:        digest,
		ReportJSON:        data,
	}); err != nil {
		logger.Warn("Run history insert failed", zap.Error(err))
	}

	if err := appInstance.GetNotifier().Publish(cmd.Context(), notify.Completion{
		RunID:          runID,
		ReportObject:   objectName,
		ReportHash:     digest,
		KeyCount:       keys,
		TagCount:       tags,
		GamesProcessed: stats.GamesProcessed,
		FinishedAt:     finishedAt,
	}); err != nil {
		logger.Warn("Completion publish failed", zap.Error(err))
	}

	// The summary listing is the stdout artifact; logs stay on stderr.
	if err := rep.WriteSummary(os.Stdout); err != nil {
		return err
	}

	stopServer()
	if svcCfg.Metrics.Enabled {
		if err := <-serverErr; err != nil {
			logger.Warn("Status server exited with error", zap.Error(err))
		}
	}

	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
