// Package analysis compares snapshots and aggregates patch-note trends.
package analysis

import (
	"math"
	"sort"

	"github.com/dom/patch-meta/internal/domain"
)

// MaterialityThreshold is the smallest rate change (in percentage points)
// that makes a champion worth reporting on its own.
const MaterialityThreshold = 0.5

type championKey struct {
	name string
	role domain.LaneRole
}

type noteInfo struct {
	changeType domain.ChangeType
	imageURL   *string
}

// Diff compares the current snapshot with the previous one. Champions are
// matched by exact (name, role); champion notes are matched by exact title.
func Diff(current, previous *domain.PatchSnapshot) []domain.MetaAnalysisDiff {
	diffs := []domain.MetaAnalysisDiff{}
	if current == nil {
		return diffs
	}

	prev := map[championKey]domain.ChampionStats{}
	if previous != nil {
		for _, c := range previous.Champions {
			prev[championKey{c.Name, c.Role}] = c
		}
	}

	notes := map[string]noteInfo{}
	for _, n := range current.PatchNotes {
		if n.Category != domain.CategoryChampions {
			continue
		}
		notes[n.Title] = noteInfo{changeType: n.ChangeType, imageURL: n.ImageURL}
	}

	for _, c := range current.Champions {
		var winDiff, pickDiff float64
		if p, ok := prev[championKey{c.Name, c.Role}]; ok {
			winDiff = Round1(c.WinRate - p.WinRate)
			pickDiff = Round1(c.PickRate - p.PickRate)
		}

		var predicted *domain.ChangeType
		imageURL := c.ImageURL
		if note, ok := notes[c.Name]; ok {
			change := note.changeType
			predicted = &change
			if imageURL == nil {
				imageURL = note.imageURL
			}
		}

		if math.Abs(winDiff) <= MaterialityThreshold && math.Abs(pickDiff) <= MaterialityThreshold && predicted == nil {
			continue
		}

		diffs = append(diffs, domain.MetaAnalysisDiff{
			ChampionName:     c.Name,
			Role:             c.Role,
			WinRateDiff:      winDiff,
			PickRateDiff:     pickDiff,
			PredictedChange:  predicted,
			ChampionImageURL: imageURL,
		})
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		a, b := diffs[i], diffs[j]
		if (a.PredictedChange != nil) != (b.PredictedChange != nil) {
			return a.PredictedChange != nil
		}
		return math.Abs(a.WinRateDiff) > math.Abs(b.WinRateDiff)
	})

	return diffs
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
