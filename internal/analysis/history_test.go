package analysis_test

import (
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historySnapshots() []*domain.PatchSnapshot {
	// Newest first, the way the store returns them.
	return []*domain.PatchSnapshot{
		testutil.NewSnapshotBuilder("25.03").
			FetchedAt(time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)).
			WithNote(testutil.NewNote("Клинок бури", domain.CategoryItemsRunes, "Стоимость: 3000 → 2900")).
			WithNote(testutil.NewNote("Ари", domain.CategoryChampions, "Урон увеличен")).
			Build(),
		testutil.NewSnapshotBuilder("25.02").
			FetchedAt(time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)).
			WithNote(testutil.NewNote("Клинок бури", domain.CategoryItems, "Урон уменьшен")).
			WithNote(testutil.NewNote("Завоеватель", domain.CategoryRunes, "Лечение уменьшено")).
			Build(),
		testutil.NewSnapshotBuilder("25.01").
			FetchedAt(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)).
			WithNote(testutil.NewNote("АРИ", domain.CategoryChampions, "Урон уменьшен")).
			WithNote(testutil.NewNote("Ари", domain.CategoryItems, "not a champion")).
			Build(),
	}
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name     string
		kind     analysis.HistoryKind
		search   string
		versions []string
	}{
		{name: "champion case-insensitive", kind: analysis.HistoryChampion, search: "ари", versions: []string{"25.01", "25.03"}},
		{name: "item includes items-runes", kind: analysis.HistoryItem, search: "Клинок бури", versions: []string{"25.02", "25.03"}},
		{name: "rune", kind: analysis.HistoryRune, search: "завоеватель", versions: []string{"25.02"}},
		{name: "unknown name", kind: analysis.HistoryChampion, search: "Гарен", versions: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := analysis.History(historySnapshots(), tt.kind, tt.search)
			versions := make([]string, len(history))
			for i, h := range history {
				versions[i] = h.PatchVersion
			}
			assert.Equal(t, tt.versions, versions)
		})
	}
}

func TestParseHistoryKind(t *testing.T) {
	kind, ok := analysis.ParseHistoryKind("items")
	require.True(t, ok)
	assert.Equal(t, analysis.HistoryItem, kind)

	_, ok = analysis.ParseHistoryKind("skins")
	assert.False(t, ok)
}

func TestChangedTitles(t *testing.T) {
	titles := analysis.ChangedTitles(historySnapshots(), domain.CategoryItemsRunes)
	assert.Equal(t, []string{"Клинок бури"}, titles)
	assert.Empty(t, analysis.ChangedTitles(nil, domain.CategoryItemsRunes))
}
