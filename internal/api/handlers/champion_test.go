package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dom/patch-meta/internal/api/handlers"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChampion(t *testing.T, ts *testutil.TestServer, b *testutil.ChampionBuilder) *domain.Champion {
	t.Helper()
	champion := b.Champion()
	require.NoError(t, ts.Store.Upsert(context.Background(), champion))
	return champion
}

func TestChampionHandler_GetAll(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/champions"))
	require.NoError(t, err)
	var empty handlers.ChampionsResponse
	testutil.AssertJSONResponse(t, resp, &empty)
	resp.Body.Close()
	assert.Empty(t, empty.Champions)
	assert.Equal(t, ts.Config.DataDragonVersion, empty.Version)

	seedChampion(t, ts, testutil.NewChampionBuilder().WithID("Zed").WithName("Зед"))
	seedChampion(t, ts, testutil.NewChampionBuilder().WithID("Ahri").WithName("Ари"))
	seedChampion(t, ts, testutil.NewChampionBuilder().WithID("Jinx").WithName("Джинкс"))

	resp, err = http.Get(ts.APIURL("/champions"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var result handlers.ChampionsResponse
	testutil.AssertJSONResponse(t, resp, &result)

	require.Len(t, result.Champions, 3)
	assert.Equal(t, "Ари", result.Champions[0].Name)
	assert.Equal(t, "Джинкс", result.Champions[1].Name)
	assert.Equal(t, "Зед", result.Champions[2].Name)
	assert.Equal(t, []string{"Fighter"}, result.Champions[0].Tags)
}

func TestChampionHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	champion := seedChampion(t, ts, testutil.NewChampionBuilder().
		WithID("Ezreal").
		WithName("Эзреаль").
		WithTitle("Прославленный исследователь"))

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "existing champion",
			id:             champion.ID,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result handlers.ChampionResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, champion.ID, result.ID)
				assert.Equal(t, "Эзреаль", result.Name)
				assert.Equal(t, "Ezreal", result.NameEn)
			},
		},
		{
			name:           "non-existent champion",
			id:             "NonExistent",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.APIURL("/champions/" + tt.id))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestChampionHandler_Sync(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Catalog.List = []*domain.Champion{
		testutil.NewChampionBuilder().WithID("Ahri").WithName("Ари").Champion(),
		testutil.NewChampionBuilder().WithID("Jinx").WithName("Джинкс").Champion(),
	}

	unauthorized, err := http.Post(ts.APIURL("/champions/sync"), "application/json", nil)
	require.NoError(t, err)
	unauthorized.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, unauthorized.StatusCode)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/champions/sync"), nil, ts.AdminToken(t))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var result handlers.SyncResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, ts.Config.DataDragonVersion, result.Version)

	stored, err := ts.Store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
