package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Database: sqlite://<path> or a postgres:// URL
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://patches.db"`

	// JWT
	JWTSecret          string `env:"JWT_SECRET"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`
	AdminPasswordHash  string `env:"ADMIN_PASSWORD_HASH"`

	// Data Dragon
	DataDragonVersion string `env:"DDRAGON_VERSION"`
	DataDragonBaseURL string `env:"DDRAGON_BASE_URL" envDefault:"https://ddragon.leagueoflegends.com"`

	// Patch notes
	PatchNotesBaseURL string        `env:"PATCH_NOTES_BASE_URL" envDefault:"https://www.leagueoflegends.com"`
	PatchNotesLocale  string        `env:"PATCH_NOTES_LOCALE" envDefault:"ru-ru"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	BackfillDelay     time.Duration `env:"BACKFILL_DELAY" envDefault:"500ms"`

	// Analysis windows
	TierWindow    int `env:"TIER_WINDOW" envDefault:"20"`
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"20"`
	AnalyzeWindow int `env:"ANALYZE_WINDOW" envDefault:"10"`

	// Stats API (optional)
	StatsAPIURL string `env:"STATS_API_URL"`
	StatsAPIKey string `env:"STATS_API_KEY"`
	StatsRegion string `env:"STATS_REGION" envDefault:"euw"`
	StatsTier   string `env:"STATS_TIER" envDefault:"DIAMOND_PLUS"`
}

// Load parses the environment for the HTTP server, which requires JWT_SECRET.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// Parse reads the environment without the server-only requirements.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := cfg.Locale(); err != nil {
		return nil, err
	}
	if cfg.TierWindow <= 0 || cfg.HistoryWindow <= 0 || cfg.AnalyzeWindow <= 0 {
		return nil, fmt.Errorf("TIER_WINDOW, HISTORY_WINDOW and ANALYZE_WINDOW must be positive")
	}

	return cfg, nil
}

// Locale returns the parsed PATCH_NOTES_LOCALE tag.
func (c *Config) Locale() (language.Tag, error) {
	tag, err := language.Parse(c.PatchNotesLocale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid PATCH_NOTES_LOCALE %q: %w", c.PatchNotesLocale, err)
	}
	return tag, nil
}

// StatsEnabled reports whether a stats API endpoint is configured.
func (c *Config) StatsEnabled() bool {
	return c.StatsAPIURL != ""
}

// SQLitePath returns the database file path when DATABASE_URL selects SQLite.
func (c *Config) SQLitePath() (string, bool) {
	path, ok := strings.CutPrefix(c.DatabaseURL, "sqlite://")
	return path, ok
}
