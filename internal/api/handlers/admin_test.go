package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/api/handlers"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_Backfill(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Notes.Versions = []string{"25.02", "25.01"}
	ts.Notes.Notes["25.02"] = []domain.PatchNoteEntry{
		testutil.NewNote("Ари", domain.CategoryChampions, "Урон увеличен"),
	}
	ts.Notes.Notes["25.01"] = []domain.PatchNoteEntry{}

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/admin/backfill"), nil, ts.AdminToken(t))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusAccepted)
	var result handlers.BackfillResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, "started", result.Status)

	require.Eventually(t, func() bool {
		recent, err := ts.Store.GetRecent(context.Background(), 10)
		return err == nil && len(recent) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestAdminHandler_BackfillRequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Post(ts.APIURL("/admin/backfill"), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, ts.Notes.FetchCount())
}

func TestAdminHandler_ClearPatches(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	require.NoError(t, ts.Store.Put(ctx, testutil.NewSnapshotBuilder("25.01").
		WithNote(testutil.NewNote("Ари", domain.CategoryChampions, "Урон увеличен")).
		Build()))

	tiers, err := http.Get(ts.APIURL("/tier-list"))
	require.NoError(t, err)
	var before handlers.TierListResponse
	testutil.AssertJSONResponse(t, tiers, &before)
	tiers.Body.Close()
	require.Len(t, before.Entries, 1)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/admin/patches"), nil, ts.AdminToken(t))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	recent, err := ts.Store.GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	tiers, err = http.Get(ts.APIURL("/tier-list"))
	require.NoError(t, err)
	defer tiers.Body.Close()
	var after handlers.TierListResponse
	testutil.AssertJSONResponse(t, tiers, &after)
	assert.Empty(t, after.Entries)
}
