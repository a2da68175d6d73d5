// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/chess-schema-crawler/internal/config"
	"github.com/JakeFAU/chess-schema-crawler/internal/logging"
	"github.com/JakeFAU/chess-schema-crawler/internal/notify"
	"github.com/JakeFAU/chess-schema-crawler/internal/storage"
	"github.com/JakeFAU/chess-schema-crawler/internal/store"
)

// App holds all the shared, long-lived services for the application. It is
// initialized once at startup and carried through the command context.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Local    *storage.LocalProvider
	Remote   storage.Provider
	GCS      *storage.GCSProvider
	RunStore store.Store
	Notifier notify.Publisher
}

// GetConfig returns the loaded service configuration.
func (a *App) GetConfig() config.Config {
	return a.Config
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.Logger
}

// GetLocalStore exposes the report directory writer.
func (a *App) GetLocalStore() *storage.LocalProvider {
	return a.Local
}

// GetRemoteStore exposes the configured report upload provider.
func (a *App) GetRemoteStore() storage.Provider {
	return a.Remote
}

// GetRunStore provides access to the run history store.
func (a *App) GetRunStore() store.Store {
	return a.RunStore
}

// GetNotifier returns the publisher used for run-completion notifications.
func (a *App) GetNotifier() notify.Publisher {
	return a.Notifier
}

// NewApp creates and initializes a new App based on the application's
// configuration. It is the central point for service initialization: it
// loads configuration from Viper and instantiates the appropriate providers.
// It fails fast if any critical service cannot be initialized.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	logger.Info("Initializing application services...")

	// 1. The local report store. Every run writes its report here, so a
	// bad directory fails startup.
	local, err := storage.NewLocalProvider(cfg.Report.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report directory: %w", err)
	}

	// 2. The optional GCS upload of the same report.
	var (
		remote storage.Provider = &storage.NoOpProvider{}
		gcs    *storage.GCSProvider
	)
	if cfg.Report.GCSBucket != "" {
		logger.Info("Using GCS report upload", zap.String("bucket", cfg.Report.GCSBucket))
		gcs, err = storage.NewGCSProvider(ctx, cfg.Report.GCSBucket, cfg.Report.GCSPrefix, &storage.ADCClientFactory{}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS upload: %w", err)
		}
		remote = gcs
	} else {
		logger.Info("Report upload disabled; no GCS bucket configured.")
	}

	// 3. The run history store.
	var runStore store.Store
	switch cfg.Store.Provider {
	case "postgres":
		logger.Info("Connecting to PostgreSQL...")
		runStore, err = store.NewRunStore(ctx, store.PostgresConfig{
			DSN:   cfg.Store.DSN,
			Table: cfg.Store.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize run store: %w", err)
		}
	case "noop":
		logger.Info("Using No-Op run store. Run history will be discarded.")
		runStore = store.NoOpStore{}
	default:
		return nil, fmt.Errorf("unknown store provider: %s", cfg.Store.Provider)
	}

	// 4. The run-completion notifier.
	var notifier notify.Publisher
	switch cfg.Notify.Provider {
	case "pubsub":
		logger.Info("Connecting to GCP Pub/Sub", zap.String("topic", cfg.Notify.TopicID))
		notifier, err = notify.NewPubSubPublisher(ctx, cfg.Notify.ProjectID, cfg.Notify.TopicID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize notifier: %w", err)
		}
	case "noop":
		logger.Info("Using No-Op notifier. No messages will be sent.")
		notifier = notify.NoOpPublisher{}
	default:
		return nil, fmt.Errorf("unknown notify provider: %s", cfg.Notify.Provider)
	}

	logger.Info("Application services initialized successfully.")

	return &App{
		Config:   cfg,
		Logger:   logger,
		Local:    local,
		Remote:   remote,
		GCS:      gcs,
		RunStore: runStore,
		Notifier: notifier,
	}, nil
}

// Close gracefully shuts down all services in the App container. It is
// called by a Cobra hook after the command finishes execution.
func (a *App) Close() {
	logger := a.log()
	logger.Info("Shutting down application services...")
	if a.Notifier != nil {
		if err := a.Notifier.Close(); err != nil {
			logger.Warn("Error closing notifier", zap.Error(err))
		}
	}
	if a.RunStore != nil {
		a.RunStore.Close()
	}
	if a.GCS != nil {
		if err := a.GCS.Close(); err != nil {
			logger.Warn("Error closing GCS client", zap.Error(err))
		}
	}

	// Flush buffered log entries before the process exits.
	if err := logger.Sync(); err != nil {
		logger.Warn("Error syncing logger on shutdown", zap.Error(err))
	}
}

func (a *App) log() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
