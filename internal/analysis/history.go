package analysis

import (
	"sort"

	"github.com/dom/patch-meta/internal/domain"
	"golang.org/x/text/cases"
)

// HistoryKind selects which categories an entity history scans.
type HistoryKind string

const (
	HistoryChampion HistoryKind = "champion"
	HistoryItem     HistoryKind = "item"
	HistoryRune     HistoryKind = "rune"
)

var historyCategories = map[HistoryKind][]domain.PatchCategory{
	HistoryChampion: {domain.CategoryChampions},
	HistoryItem:     {domain.CategoryItems, domain.CategoryItemsRunes},
	HistoryRune:     {domain.CategoryRunes, domain.CategoryItemsRunes},
}

// ParseHistoryKind accepts singular or plural kind names.
func ParseHistoryKind(s string) (HistoryKind, bool) {
	switch s {
	case "champion", "champions":
		return HistoryChampion, true
	case "item", "items":
		return HistoryItem, true
	case "rune", "runes":
		return HistoryRune, true
	}
	return "", false
}

// History collects every note about name (matched case-insensitively on id
// or title) within the categories of kind, oldest snapshot first.
func History(snapshots []*domain.PatchSnapshot, kind HistoryKind, name string) []domain.HistoryEntry {
	allowed := map[domain.PatchCategory]bool{}
	for _, c := range historyCategories[kind] {
		allowed[c] = true
	}

	search := cases.Fold().String(name)
	history := []domain.HistoryEntry{}
	for _, snapshot := range snapshots {
		for _, note := range snapshot.PatchNotes {
			if !allowed[note.Category] {
				continue
			}
			if cases.Fold().String(note.ID) != search && cases.Fold().String(note.Title) != search {
				continue
			}
			history = append(history, domain.HistoryEntry{
				PatchVersion: snapshot.Version,
				Date:         snapshot.FetchedAt,
				Change:       note,
			})
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history
}

// ChangedTitles returns the distinct titles of notes in category, sorted.
func ChangedTitles(snapshots []*domain.PatchSnapshot, category domain.PatchCategory) []string {
	seen := map[string]bool{}
	titles := []string{}
	for _, snapshot := range snapshots {
		for _, note := range snapshot.PatchNotes {
			if note.Category != category || seen[note.Title] {
				continue
			}
			seen[note.Title] = true
			titles = append(titles, note.Title)
		}
	}
	sort.Strings(titles)
	return titles
}
