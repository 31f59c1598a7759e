package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/repository/sqlite"
	"github.com/dom/patch-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "patches.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestStore_PutGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snapshot := testutil.NewSnapshotBuilder("25.01").
		WithChampion("Ари", domain.LaneMid, 51.2, 8.4).
		WithNote(testutil.NewNote("Ари", domain.CategoryChampions, "Урон увеличен")).
		Build()
	require.NoError(t, store.Put(ctx, snapshot))

	got, found, err := store.Get(ctx, "25.01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, snapshot, got)

	_, found, err = store.Get(ctx, "99.99")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_PutReplacesVersion(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, testutil.NewSnapshotBuilder("25.01").FetchedAt(base).Build()))
	require.NoError(t, store.Put(ctx, testutil.NewSnapshotBuilder("25.01").
		FetchedAt(base.Add(time.Hour)).
		WithChampion("Гарен", domain.LaneTop, 50, 5).
		Build()))

	recent, err := store.GetRecent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, base.Add(time.Hour), recent[0].FetchedAt)
	assert.Len(t, recent[0].Champions, 1)
}

func TestStore_GetRecentOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	versions := []string{"25.01", "25.02", "25.03", "25.04"}
	for i, v := range versions {
		at := base.Add(time.Duration(i) * 14 * 24 * time.Hour)
		require.NoError(t, store.Put(ctx, testutil.NewSnapshotBuilder(v).FetchedAt(at).Build()))
	}

	recent, err := store.GetRecent(ctx, 3)
	require.NoError(t, err)
	testutil.AssertVersions(t, recent, "25.04", "25.03", "25.02")
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testutil.NewSnapshotBuilder("25.01").Build()))
	require.NoError(t, store.Clear(ctx))

	recent, err := store.GetRecent(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, recent)

	// Still writable after compaction.
	require.NoError(t, store.Put(ctx, testutil.NewSnapshotBuilder("25.02").Build()))
}

func TestStore_Champions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	syncedAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	champions := []*domain.Champion{
		{ID: "Garen", Key: "86", Name: "Гарен", NameEn: "Garen", ImageURL: "https://img.example/garen.png", Tags: datatypes.JSON(`["Fighter","Tank"]`), LastSyncedAt: syncedAt},
		{ID: "Ahri", Key: "103", Name: "Ари", NameEn: "Ahri", ImageURL: "https://img.example/ahri.png", LastSyncedAt: syncedAt},
	}
	require.NoError(t, store.UpsertMany(ctx, champions))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ари", all[0].Name)
	assert.JSONEq(t, `[]`, string(all[0].Tags))

	champions[0].Title = "the Might of Demacia"
	require.NoError(t, store.Upsert(ctx, champions[0]))

	got, err := store.GetByID(ctx, "Garen")
	require.NoError(t, err)
	assert.Equal(t, "the Might of Demacia", got.Title)
	assert.Equal(t, syncedAt, got.LastSyncedAt)

	_, err = store.GetByID(ctx, "Teemo")
	assert.ErrorIs(t, err, domain.ErrChampionNotFound)
}
