package crawler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the survey knobs. Malformed overrides fall back to these
// instead of aborting the run.
const (
	defaultMaxUsers     = 120
	defaultMaxMonths    = 12
	defaultRequestSleep = 150 * time.Millisecond
)

// Endpoints names the public API URLs the walk touches. ArchivesTemplate
// carries a single %s slot for the username.
type Endpoints struct {
	Leaderboards     string
	ArchivesTemplate string
	SampleArchive    string
}

// Config captures every configuration knob that influences a crawl run.
// All values originate from Viper so the crawler can be configured via files,
// env vars, or CLI flags.
type Config struct {
	MaxUsers         int
	MaxMonthsPerUser int
	RequestSleep     time.Duration
	IncludeSample    bool
	SeedUsername     string
	UserAgent        string
	Endpoints        Endpoints
	RequestTimeout   time.Duration
	MaxFetchAttempts int
	MaxBodyBytes     int
	RespectRobots    bool
}

// LoadConfig constructs a Config by reading from Viper. The survey limits
// (max_users, max_months_per_user, request_sleep_seconds,
// include_erik_sample) tolerate malformed values: unparsable input falls
// back to the default and out-of-range numbers are clamped, so a bad env
// var degrades the run instead of killing it.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		MaxUsers:         clampedInt(v, "max_users", defaultMaxUsers, 1),
		MaxMonthsPerUser: clampedInt(v, "max_months_per_user", defaultMaxMonths, 1),
		RequestSleep:     sleepSeconds(v, "request_sleep_seconds", defaultRequestSleep),
		IncludeSample:    sampleEnabled(v, "include_erik_sample"),
		SeedUsername:     v.GetString("crawler.seed_username"),
		UserAgent:        v.GetString("crawler.user_agent"),
		Endpoints: Endpoints{
			Leaderboards:     v.GetString("endpoints.leaderboards"),
			ArchivesTemplate: v.GetString("endpoints.player_archives_template"),
			SampleArchive:    v.GetString("endpoints.sample_archive"),
		},
		RequestTimeout:   time.Duration(v.GetInt("http.timeout_seconds")) * time.Second,
		MaxFetchAttempts: v.GetInt("http.max_attempts"),
		MaxBodyBytes:     v.GetInt("http.max_body_bytes"),
		RespectRobots:    v.GetBool("http.respect_robots"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.SeedUsername == "" {
		return fmt.Errorf("crawler.seed_username must be set")
	}
	if c.Endpoints.Leaderboards == "" {
		return fmt.Errorf("endpoints.leaderboards must be set")
	}
	if !strings.Contains(c.Endpoints.ArchivesTemplate, "%s") {
		return fmt.Errorf("endpoints.player_archives_template must contain a %%s username slot")
	}
	if c.IncludeSample && c.Endpoints.SampleArchive == "" {
		return fmt.Errorf("endpoints.sample_archive must be set when include_erik_sample is on")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.MaxFetchAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes must be >= 0")
	}
	return nil
}

// ArchivesURL renders the archive-index URL for username. Case is preserved
// exactly as discovered.
func (c Config) ArchivesURL(username string) string {
	return fmt.Sprintf(c.Endpoints.ArchivesTemplate, username)
}

func clampedInt(v *viper.Viper, key string, fallback, floor int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		n = fallback
	}
	if n < floor {
		n = floor
	}
	return n
}

func sleepSeconds(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return fallback
	}
	if secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// sampleEnabled reads the sample toggle. Only the literal strings "0",
// "false" and "False" turn it off; any other value, including garbage,
// leaves the sample on.
func sampleEnabled(v *viper.Viper, key string) bool {
	switch strings.TrimSpace(v.GetString(key)) {
	case "0", "false", "False":
		return false
	default:
		return true
	}
}
