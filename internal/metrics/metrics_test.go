package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch(t *testing.T) {
	m := metrics.New()

	m.ObserveFetch(time.Now(), nil)
	m.ObserveFetch(time.Now(), errors.New("boom"))
	m.ObserveFetch(time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnapshotFetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotFetches.WithLabelValues("error")))
	assert.Positive(t, testutil.ToFloat64(m.LastFetchSuccess))
}

func TestObserveTierCache(t *testing.T) {
	m := metrics.New()
	m.ObserveTierCache(false)
	m.ObserveTierCache(true)
	m.ObserveTierCache(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TierCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TierCache.WithLabelValues("miss")))
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ObserveTierCache(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `patchmeta_tier_cache_lookups_total{result="hit"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.New()
		metrics.New()
	})
}
