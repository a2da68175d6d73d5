package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/chess-schema-crawler/internal/app"
	"github.com/JakeFAU/chess-schema-crawler/internal/config"
	"github.com/JakeFAU/chess-schema-crawler/internal/logging"
	"github.com/JakeFAU/chess-schema-crawler/internal/notify"
	"github.com/JakeFAU/chess-schema-crawler/internal/storage"
	"github.com/JakeFAU/chess-schema-crawler/internal/store"
	pkgconfig "github.com/JakeFAU/chess-schema-crawler/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetConfig() config.Config
	GetLogger() *zap.Logger
	GetLocalStore() *storage.LocalProvider
	GetRemoteStore() storage.Provider
	GetRunStore() store.Store
	GetNotifier() notify.Publisher
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemacrawler",
		Short: "A schema inventory crawler for the chess.com public API.",
		Long: `schemacrawler walks the chess.com public API and records every JSON key
path and PGN tag name observed across game archives. A run produces a
schema report: the sorted union of both listings plus run metadata,
written locally and optionally uploaded, persisted, and announced.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		// This hook runs AFTER config is loaded but BEFORE the subcommand's RunE,
		// which makes it the place to build and inject the application.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			// Store the app instance in the context for subcommands to use.
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// This hook ensures services are shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	// Initialize Viper configuration.
	cobra.OnInitialize(func() { pkgconfig.InitConfig(cfgFile) })

	// Define persistent flags.
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/schemacrawler, $HOME/.schemacrawler)")

	// Add subcommands. They retrieve the app from the command context.
	cmd.AddCommand(newCrawlCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	// A development logger carries startup; NewApp swaps in the configured one.
	logger, err := logging.New(true)
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		zap.L().Fatal("Command execution failed", zap.Error(err))
	}
}
