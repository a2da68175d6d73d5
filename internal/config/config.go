// Package config loads and validates service configuration via Viper.
//
// Survey knobs that shape the walk itself (user cap, months per user,
// request pacing, the sample toggle) are parsed by the crawler package;
// this package covers everything around the walk: report output, run
// history, notifications, metrics, and logging.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config captures the service-level configuration sections.
type Config struct {
	Report  ReportConfig  `mapstructure:"report"`
	Store   StoreConfig   `mapstructure:"store"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ReportConfig sets where the schema report lands.
type ReportConfig struct {
	Dir       string `mapstructure:"dir"`
	Object    string `mapstructure:"object"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	GCSPrefix string `mapstructure:"gcs_prefix"`
}

// StoreConfig controls the run history database.
type StoreConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
}

// NotifyConfig holds metadata for run-completion notifications.
type NotifyConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// MetricsConfig controls the status HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from the supplied Viper instance.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate enforces required values and reasonable limits. Provider names
// are dispatched, and rejected, where the services are built.
func (c Config) Validate() error {
	if c.Report.Dir == "" {
		return fmt.Errorf("report.dir is required")
	}
	if c.Report.Object == "" {
		return fmt.Errorf("report.object is required")
	}
	if c.Store.Provider == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn must be set when store.provider is postgres")
	}
	if c.Notify.Provider == "pubsub" && (c.Notify.ProjectID == "" || c.Notify.TopicID == "") {
		return fmt.Errorf("notify.project_id and notify.topic_id must be set when notify.provider is pubsub")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics are enabled")
	}
	return nil
}

// Addr returns the listen address for the status server.
func (c MetricsConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
