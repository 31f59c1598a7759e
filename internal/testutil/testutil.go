package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/api"
	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/metrics"
	"github.com/dom/patch-meta/internal/repository"
	repoPostgres "github.com/dom/patch-meta/internal/repository/postgres"
	"github.com/dom/patch-meta/internal/repository/sqlite"
	"github.com/dom/patch-meta/internal/service"
	"github.com/dom/patch-meta/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AdminPassword is the admin password accepted by TestConfig.
const AdminPassword = "test-admin-password"

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_patch_meta"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"patches", "champions"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// NewTestStore opens a SQLite store in a temporary directory
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "patches.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	hash, _ := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		DatabaseURL:        "sqlite://:memory:",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		AdminPasswordHash:  string(hash),
		DataDragonVersion:  "15.1.1",
		PatchNotesLocale:   "ru-ru",
		FetchTimeout:       5 * time.Second,
		BackfillDelay:      0,
		TierWindow:         20,
		HistoryWindow:      20,
		AnalyzeWindow:      10,
		StatsRegion:        "euw",
		StatsTier:          "DIAMOND_PLUS",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Store    *sqlite.Store
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Metrics  *metrics.Metrics
	Notes    *FakeNotes
	Catalog  *FakeCatalog
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by SQLite and fake remote sources
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	store := NewTestStore(t)
	cfg := TestConfig()
	repos := store.Repositories()

	hub := websocket.NewHub(50)
	go hub.Run()

	notes := NewFakeNotes()
	catalog := &FakeCatalog{Version: cfg.DataDragonVersion}
	m := metrics.New()

	services := service.NewServices(repos, service.Sources{
		Notes:   notes,
		Catalog: catalog,
	}, events.NewBus(hub), m, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	router := api.NewRouter(ctx, services, hub, m)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Store:    store,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Metrics:  m,
		Notes:    notes,
		Catalog:  catalog,
		Config:   cfg,
	}

	t.Cleanup(func() {
		cancel()
		server.Close()
		hub.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the event stream URL
func (ts *TestServer) WebSocketURL() string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return wsURL + "/api/v1/events"
}

// AdminToken issues an admin bearer token
func (ts *TestServer) AdminToken(t *testing.T) string {
	t.Helper()
	result, err := ts.Services.Auth.Login(AdminPassword)
	if err != nil {
		t.Fatalf("failed to issue admin token: %v", err)
	}
	return result.AccessToken
}
