package domain

import "time"

// MetaAnalysisDiff describes how one champion/lane moved between two snapshots.
type MetaAnalysisDiff struct {
	ChampionName     string      `json:"championName"`
	Role             LaneRole    `json:"role"`
	WinRateDiff      float64     `json:"winRateDiff"`
	PickRateDiff     float64     `json:"pickRateDiff"`
	PredictedChange  *ChangeType `json:"predictedChange,omitempty"`
	ChampionImageURL *string     `json:"championImageUrl,omitempty"`
}

// TierEntry is the buff/nerf tally of one (name, category) pair over a window of snapshots.
type TierEntry struct {
	Name     string        `json:"name"`
	Category PatchCategory `json:"category"`
	Buffs    int           `json:"buffs"`
	Nerfs    int           `json:"nerfs"`
	Adjusted int           `json:"adjusted"`
	IconURL  *string       `json:"iconUrl,omitempty"`
}

// Score is the ranking key of the entry.
func (e TierEntry) Score() int {
	return e.Buffs - e.Nerfs
}

// HistoryEntry is one patch note about an entity, tagged with the patch it came from.
type HistoryEntry struct {
	PatchVersion string         `json:"patchVersion"`
	Date         time.Time      `json:"date"`
	Change       PatchNoteEntry `json:"change"`
}

// BackfillSummary reports what a history sync pass did.
type BackfillSummary struct {
	Checked int `json:"checked"`
	Fetched int `json:"fetched"`
	Failed  int `json:"failed"`
}
