package analysis_test

import (
	"testing"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_PredictedBuff(t *testing.T) {
	previous := testutil.NewSnapshotBuilder("25.01").
		WithChampion("X", domain.LaneMid, 51.2, 5).
		Build()
	current := testutil.NewSnapshotBuilder("25.02").
		WithChampion("X", domain.LaneMid, 52.0, 5).
		WithNote(testutil.NewNote("X", domain.CategoryChampions, "Damage increased 50 -> 60")).
		Build()

	diffs := analysis.Diff(current, previous)
	require.Len(t, diffs, 1)
	assert.Equal(t, "X", diffs[0].ChampionName)
	assert.Equal(t, 0.8, diffs[0].WinRateDiff)
	assert.Equal(t, 0.0, diffs[0].PickRateDiff)
	require.NotNil(t, diffs[0].PredictedChange)
	assert.Equal(t, domain.ChangeBuff, *diffs[0].PredictedChange)
}

func TestDiff_Materiality(t *testing.T) {
	previous := testutil.NewSnapshotBuilder("25.01").
		WithChampion("Small", domain.LaneTop, 50.0, 10.0).
		WithChampion("Big", domain.LaneTop, 50.0, 10.0).
		WithChampion("Picked", domain.LaneTop, 50.0, 10.0).
		WithChampion("Edge", domain.LaneMid, 50.0, 0.6).
		Build()
	current := testutil.NewSnapshotBuilder("25.02").
		WithChampion("Small", domain.LaneTop, 50.4, 10.5).
		WithChampion("Big", domain.LaneTop, 48.9, 10.0).
		WithChampion("Picked", domain.LaneTop, 50.0, 11.2).
		WithChampion("Fresh", domain.LaneTop, 55.0, 3.0).
		WithChampion("Edge", domain.LaneMid, 50.0, 1.1).
		Build()

	diffs := analysis.Diff(current, previous)
	names := make([]string, len(diffs))
	for i, d := range diffs {
		names[i] = d.ChampionName
	}
	assert.ElementsMatch(t, []string{"Big", "Picked"}, names)
}

func TestDiff_MatchesByNameAndRole(t *testing.T) {
	previous := testutil.NewSnapshotBuilder("25.01").
		WithChampion("Ари", domain.LaneMid, 50.0, 8.0).
		Build()
	current := testutil.NewSnapshotBuilder("25.02").
		WithChampion("Ари", domain.LaneMid, 52.345, 8.0).
		WithChampion("Ари", domain.LaneSupport, 40.0, 2.0).
		Build()

	diffs := analysis.Diff(current, previous)
	require.Len(t, diffs, 1)
	assert.Equal(t, domain.LaneMid, diffs[0].Role)
	assert.Equal(t, 2.3, diffs[0].WinRateDiff)
}

func TestDiff_SortOrder(t *testing.T) {
	previous := testutil.NewSnapshotBuilder("25.01").
		WithChampion("A", domain.LaneTop, 50, 5).
		WithChampion("B", domain.LaneTop, 50, 5).
		WithChampion("C", domain.LaneTop, 50, 5).
		WithChampion("D", domain.LaneTop, 50, 5).
		Build()
	current := testutil.NewSnapshotBuilder("25.02").
		WithChampion("A", domain.LaneTop, 53, 5).
		WithChampion("B", domain.LaneTop, 46, 5).
		WithChampion("C", domain.LaneTop, 50.1, 5).
		WithChampion("D", domain.LaneTop, 51, 5).
		WithNote(testutil.NewNote("C", domain.CategoryChampions, "Урон уменьшен")).
		WithNote(testutil.NewNote("D", domain.CategoryChampions, "Урон увеличен")).
		WithNote(testutil.NewNote("A", domain.CategoryItems, "Урон увеличен")).
		Build()

	diffs := analysis.Diff(current, previous)
	require.Len(t, diffs, 4)

	seenUnpredicted := false
	for _, d := range diffs {
		if d.PredictedChange == nil {
			seenUnpredicted = true
			continue
		}
		assert.False(t, seenUnpredicted, "predicted entry %s sorted after an unpredicted one", d.ChampionName)
	}

	assert.Equal(t, "D", diffs[0].ChampionName)
	assert.Equal(t, "C", diffs[1].ChampionName)
	assert.Equal(t, "B", diffs[2].ChampionName)
	assert.Equal(t, "A", diffs[3].ChampionName)
	assert.Nil(t, diffs[3].PredictedChange, "item notes must not predict champion changes")
}

func TestDiff_ImagePreference(t *testing.T) {
	note := testutil.NewNote("Ари", domain.CategoryChampions, "Урон увеличен")
	note.ImageURL = domain.StringPtr("https://img.example/note.png")

	withOwn := testutil.NewSnapshotBuilder("25.02").WithNote(note).Build()
	withOwn.Champions = append(withOwn.Champions, domain.ChampionStats{
		Name: "Ари", Role: domain.LaneMid, ImageURL: domain.StringPtr("https://img.example/own.png"),
	})
	diffs := analysis.Diff(withOwn, nil)
	require.Len(t, diffs, 1)
	assert.Equal(t, "https://img.example/own.png", *diffs[0].ChampionImageURL)

	withoutOwn := testutil.NewSnapshotBuilder("25.02").
		WithChampion("Ари", domain.LaneMid, 50, 5).
		WithNote(note).
		Build()
	diffs = analysis.Diff(withoutOwn, nil)
	require.Len(t, diffs, 1)
	assert.Equal(t, "https://img.example/note.png", *diffs[0].ChampionImageURL)
}

func TestDiff_NilCurrent(t *testing.T) {
	assert.Empty(t, analysis.Diff(nil, nil))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 0.8, analysis.Round1(52.0-51.2))
	assert.Equal(t, -1.3, analysis.Round1(-1.26))
	assert.Equal(t, 0.0, analysis.Round1(0.04))
}
