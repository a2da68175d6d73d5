// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Bind installs defaults and environment bindings on v. Every key carries a
// default so environment overrides resolve through Viper's automatic lookup.
func Bind(v *viper.Viper) {
	// Survey knobs. The crawler package re-parses these four leniently, so
	// malformed overrides fall back instead of failing the run.
	v.SetDefault("max_users", 120)
	v.SetDefault("max_months_per_user", 12)
	v.SetDefault("request_sleep_seconds", 0.15)
	v.SetDefault("include_erik_sample", true)

	const defaultUA = "chess-schema-crawler/1.0 (+https://github.com/JakeFAU/chess-schema-crawler)"
	v.SetDefault("crawler.user_agent", defaultUA)
	v.SetDefault("crawler.seed_username", "erik")

	v.SetDefault("endpoints.leaderboards", "https://api.chess.com/pub/leaderboards")
	v.SetDefault("endpoints.player_archives_template", "https://api.chess.com/pub/player/%s/games/archives")
	v.SetDefault("endpoints.sample_archive", "https://api.chess.com/pub/player/erik/games/2009/10")

	v.SetDefault("http.timeout_seconds", 20)
	v.SetDefault("http.max_attempts", 3)
	v.SetDefault("http.max_body_bytes", 0)
	v.SetDefault("http.respect_robots", false)

	v.SetDefault("report.dir", "outputs")
	v.SetDefault("report.object", "chess_headers.json")
	v.SetDefault("report.gcs_bucket", "")
	v.SetDefault("report.gcs_prefix", "reports")

	v.SetDefault("store.provider", "noop")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table", "schema_runs")

	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.project_id", "")
	v.SetDefault("notify.topic_id", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 8080)

	v.SetDefault("logging.development", true)

	v.SetEnvPrefix("CHESS_HEADERS") // e.g. CHESS_HEADERS_MAX_USERS=30
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// InitConfig initializes the global Viper instance. It binds defaults,
// defines configuration search paths, and reads the config file when one is
// present. A missing file is not fatal; defaults and environment variables
// carry the run.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/schemacrawler/")
		viper.AddConfigPath("$HOME/.schemacrawler")
	}

	Bind(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			zap.L().Warn("Config file not found; using defaults and environment variables.")
		} else {
			zap.L().Error("Error reading config file", zap.Error(err))
		}
	} else {
		zap.L().Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
