package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/testutil"
)

func init() {
	color.NoColor = true
}

func TestRenderPatches(t *testing.T) {
	var buf bytes.Buffer
	now := testutil.BaseFetchedAt.Add(3 * time.Hour)
	stored := []*domain.PatchSnapshot{testutil.NewSnapshotBuilder("25.02").Build()}

	renderPatches(&buf, []string{"25.03", "25.02"}, stored, now)

	out := buf.String()
	assert.Contains(t, out, "25.03")
	assert.Contains(t, out, "3 hours ago")
	assert.Contains(t, out, "2 patches")
	assert.Contains(t, out, "1 stored")
}

func TestRenderSnapshot(t *testing.T) {
	var buf bytes.Buffer
	s := testutil.NewSnapshotBuilder("25.01").
		WithNote(testutil.NewNote("Ари", domain.CategoryChampions, "Урон увеличен", "Перезарядка: 10 → 8")).
		Build()

	renderSnapshot(&buf, s, testutil.BaseFetchedAt.Add(time.Minute))

	out := buf.String()
	assert.Contains(t, out, "Patch 25.01")
	assert.Contains(t, out, "1 minute ago")
	assert.Contains(t, out, "Ари")
	assert.Contains(t, out, "Buff")
}

func TestRenderDiffs(t *testing.T) {
	var buf bytes.Buffer
	renderDiffs(&buf, nil)
	assert.Contains(t, buf.String(), "No changes")

	buf.Reset()
	nerf := domain.ChangeNerf
	renderDiffs(&buf, []domain.MetaAnalysisDiff{
		{ChampionName: "Джинкс", Role: domain.LaneAdc, WinRateDiff: -1.5, PickRateDiff: 0.7, PredictedChange: &nerf},
		{ChampionName: "Зед", Role: domain.LaneMid, WinRateDiff: 2},
	})

	out := buf.String()
	assert.Contains(t, out, "ADC")
	assert.Contains(t, out, "-1.5")
	assert.Contains(t, out, "+0.7")
	assert.Contains(t, out, "+2.0")
	assert.Contains(t, out, "Nerf")
}

func TestRenderTiers(t *testing.T) {
	entries := []domain.TierEntry{
		{Name: "Ари", Category: domain.CategoryChampions, Buffs: 3, Nerfs: 1},
		{Name: "Клинок бури", Category: domain.CategoryItems, Nerfs: 2},
	}

	var buf bytes.Buffer
	renderTiers(&buf, entries, domain.CategoryItems, 0)
	out := buf.String()
	assert.NotContains(t, out, "Ари")
	assert.Contains(t, out, "Клинок бури")
	assert.Contains(t, out, "-2")

	buf.Reset()
	renderTiers(&buf, entries, domain.CategoryRunes, 0)
	assert.Contains(t, buf.String(), "No changes")
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	renderHistory(&buf, "Ари", nil, time.Now())
	assert.Contains(t, buf.String(), "No changes to Ари")

	buf.Reset()
	note := testutil.NewNote("Ари", domain.CategoryChampions, "один", "два", "три", "четыре", "пять")
	renderHistory(&buf, "Ари", []domain.HistoryEntry{
		{PatchVersion: "25.01", Date: testutil.BaseFetchedAt, Change: note},
	}, testutil.BaseFetchedAt.Add(48*time.Hour))

	out := buf.String()
	assert.Contains(t, out, "25.01")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "три")
	assert.NotContains(t, out, "четыре")
	assert.Contains(t, out, "... 2 more")
}

func TestRenderBackfill(t *testing.T) {
	var buf bytes.Buffer
	renderBackfill(&buf, domain.BackfillSummary{Checked: 5, Fetched: 3, Failed: 1})
	assert.Equal(t, "Checked 5 patches: 3 fetched, 1 failed\n", buf.String())
}

func TestEventPrinter(t *testing.T) {
	var buf bytes.Buffer
	eventPrinter(&buf).Emit(events.Errorf("Failed to fetch patch %s", "25.09"))
	assert.Equal(t, "[ERROR] Failed to fetch patch 25.09\n", buf.String())
}
