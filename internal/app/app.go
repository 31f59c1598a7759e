// Package app wires configuration into stores, remote clients and services
// for both the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/metrics"
	"github.com/dom/patch-meta/internal/repository"
	"github.com/dom/patch-meta/internal/repository/postgres"
	"github.com/dom/patch-meta/internal/repository/sqlite"
	"github.com/dom/patch-meta/internal/scraper"
	"github.com/dom/patch-meta/internal/service"
	"github.com/dom/patch-meta/internal/statsapi"
)

type App struct {
	Config   *config.Config
	Repos    *repository.Repositories
	Services *service.Services
	Metrics  *metrics.Metrics
	Events   *events.Bus

	closeStore func() error
}

// New opens the store selected by DATABASE_URL and builds the services.
// Events go to every sink given.
func New(cfg *config.Config, sinks ...events.Emitter) (*App, error) {
	repos, closeStore, err := OpenRepositories(cfg)
	if err != nil {
		return nil, err
	}

	sources, err := NewSources(cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	bus := events.NewBus(sinks...)
	m := metrics.New()

	return &App{
		Config:     cfg,
		Repos:      repos,
		Services:   service.NewServices(repos, sources, bus, m, cfg),
		Metrics:    m,
		Events:     bus,
		closeStore: closeStore,
	}, nil
}

func (a *App) Close() error {
	return a.closeStore()
}

// OpenRepositories opens SQLite for sqlite:// URLs and PostgreSQL otherwise.
// The returned func closes the underlying database.
func OpenRepositories(cfg *config.Config) (*repository.Repositories, func() error, error) {
	if path, ok := cfg.SQLitePath(); ok {
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store.Repositories(), store.Close, nil
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return postgres.NewRepositories(db), sqlDB.Close, nil
}

// NewSources builds the remote clients. Stats stays nil unless STATS_API_URL is set.
func NewSources(cfg *config.Config) (service.Sources, error) {
	locale, err := cfg.Locale()
	if err != nil {
		return service.Sources{}, err
	}

	client := scraper.NewClient(scraper.Options{
		SiteBaseURL:       cfg.PatchNotesBaseURL,
		DataDragonBaseURL: cfg.DataDragonBaseURL,
		Locale:            locale,
		Timeout:           cfg.FetchTimeout,
	})

	sources := service.Sources{Notes: client, Catalog: client}
	if cfg.StatsEnabled() {
		sources.Stats = statsapi.NewClient(cfg.StatsAPIURL, cfg.StatsAPIKey, cfg.FetchTimeout)
	}
	return sources, nil
}

// CheckStats logs whether the configured stats API answers. It never fails.
func CheckStats(ctx context.Context, cfg *config.Config) {
	if !cfg.StatsEnabled() {
		log.Printf("stats api not configured, champion rows come from patch notes")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if !statsapi.NewClient(cfg.StatsAPIURL, cfg.StatsAPIKey, cfg.FetchTimeout).Ping(ctx) {
		log.Printf("WARN [app.CheckStats] stats api %s is not reachable", cfg.StatsAPIURL)
		return
	}
	log.Printf("stats api %s is reachable", cfg.StatsAPIURL)
}
