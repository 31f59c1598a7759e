package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/patch-meta/internal/testutil"
)

func TestStoredSnapshots(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	// 25.24 is newer than every listed version and must not hide the older ones.
	for i, v := range []string{"25.01", "25.02", "25.24"} {
		at := testutil.BaseFetchedAt.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Put(ctx, testutil.NewSnapshotBuilder(v).FetchedAt(at).Build()))
	}

	stored, err := storedSnapshots(ctx, store, []string{"25.03", "25.02", "25.01"})
	require.NoError(t, err)
	testutil.AssertVersions(t, stored, "25.02", "25.01")

	stored, err = storedSnapshots(ctx, store, nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
