package analysis

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/trend"
)

// TierList is a ranked tally together with the signature of the snapshots
// it was computed from.
type TierList struct {
	Signature string
	Entries   []domain.TierEntry
}

// TierAggregator ranks patch-note entities by how often they were buffed or
// nerfed. The last result is memoized and reused for as long as the scanned
// snapshots keep the same signature.
type TierAggregator struct {
	mu     sync.Mutex
	cached *TierList
}

func NewTierAggregator() *TierAggregator {
	return &TierAggregator{}
}

// Signature identifies a set of snapshots by version and fetch time.
func Signature(snapshots []*domain.PatchSnapshot) string {
	var b strings.Builder
	for _, s := range snapshots {
		b.WriteString(s.Version)
		b.WriteByte('|')
		b.WriteString(s.FetchedAt.UTC().Format(time.RFC3339Nano))
		b.WriteByte(';')
	}
	return b.String()
}

// Rank returns the tier list for the snapshots. The second result reports
// whether the memoized list was returned.
func (a *TierAggregator) Rank(snapshots []*domain.PatchSnapshot) (*TierList, bool) {
	sig := Signature(snapshots)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil && a.cached.Signature == sig {
		return a.cached, true
	}

	list := &TierList{Signature: sig, Entries: Tally(snapshots)}
	a.cached = list
	return list, false
}

// Invalidate drops the memoized list.
func (a *TierAggregator) Invalidate() {
	a.mu.Lock()
	a.cached = nil
	a.mu.Unlock()
}

type tierKey struct {
	name     string
	category domain.PatchCategory
}

// Tally scores every change line of every note and ranks the (title,
// category) pairs by buffs minus nerfs, then by buffs, then by fewest nerfs.
// Icons from later snapshots in the slice overwrite earlier ones.
func Tally(snapshots []*domain.PatchSnapshot) []domain.TierEntry {
	index := map[tierKey]*domain.TierEntry{}
	for _, snapshot := range snapshots {
		for _, note := range snapshot.PatchNotes {
			key := tierKey{note.Title, note.Category}
			entry, ok := index[key]
			if !ok {
				entry = &domain.TierEntry{Name: note.Title, Category: note.Category}
				index[key] = entry
			}
			if note.ImageURL != nil {
				entry.IconURL = note.ImageURL
			}

			for _, line := range note.ChangeLines() {
				switch trend.Score(line) {
				case trend.Buff:
					entry.Buffs++
				case trend.Nerf:
					entry.Nerfs++
				default:
					entry.Adjusted++
				}
			}
		}
	}

	entries := make([]domain.TierEntry, 0, len(index))
	for _, e := range index {
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.Buffs != b.Buffs {
			return a.Buffs > b.Buffs
		}
		if a.Nerfs != b.Nerfs {
			return a.Nerfs < b.Nerfs
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Category < b.Category
	})

	return entries
}

// FilterEntries keeps the entries of category (all when empty) and cuts the
// result to limit entries when limit is positive. Ranking order is kept.
func FilterEntries(entries []domain.TierEntry, category domain.PatchCategory, limit int) []domain.TierEntry {
	filtered := make([]domain.TierEntry, 0, len(entries))
	for _, e := range entries {
		if category != "" && e.Category != category {
			continue
		}
		filtered = append(filtered, e)
		if limit > 0 && len(filtered) == limit {
			break
		}
	}
	return filtered
}
