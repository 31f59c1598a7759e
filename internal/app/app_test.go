package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dom/patch-meta/internal/app"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLite(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "patches.db")

	recorder := &events.Recorder{}
	a, err := app.New(cfg, recorder)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Repos.Patch.Put(context.Background(), testutil.NewSnapshotBuilder("25.01").Build()))

	latest, err := a.Services.Patch.LatestPatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "25.01", latest.Version)

	require.NoError(t, a.Services.Patch.Clear(context.Background()))
	assert.Equal(t, []events.Level{events.LevelSuccess}, recorder.Levels())
}

func TestNewSources(t *testing.T) {
	cfg := testutil.TestConfig()

	sources, err := app.NewSources(cfg)
	require.NoError(t, err)
	assert.NotNil(t, sources.Notes)
	assert.NotNil(t, sources.Catalog)
	assert.Nil(t, sources.Stats, "stats stay a nil interface when not configured")

	cfg.StatsAPIURL = "http://stats.invalid"
	sources, err = app.NewSources(cfg)
	require.NoError(t, err)
	assert.NotNil(t, sources.Stats)

	cfg.PatchNotesLocale = "!!"
	_, err = app.NewSources(cfg)
	assert.Error(t, err)
}

func TestOpenRepositories_BadSQLitePath(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.DatabaseURL = "sqlite://"

	_, _, err := app.OpenRepositories(cfg)
	assert.Error(t, err)
}
