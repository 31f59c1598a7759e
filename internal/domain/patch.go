package domain

import "time"

// PatchSnapshot is everything fetched for one patch version. The version is
// the unique key; a snapshot is only ever replaced wholesale.
type PatchSnapshot struct {
	Version    string           `json:"version"`
	FetchedAt  time.Time        `json:"fetchedAt"`
	Champions  []ChampionStats  `json:"champions"`
	PatchNotes []PatchNoteEntry `json:"patchNotes"`
}

// ChampionStats holds one champion's numbers for one lane. Rates are on a 0-100 scale.
type ChampionStats struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Tier         string     `json:"tier"`
	Role         LaneRole   `json:"role"`
	WinRate      float64    `json:"winRate"`
	PickRate     float64    `json:"pickRate"`
	BanRate      float64    `json:"banRate"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
	CoreItems    []ItemStat `json:"coreItems"`
	PopularRunes []string   `json:"popularRunes"`
}

type ItemStat struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// PatchNoteEntry is one titled section of the patch notes (a champion, an item, a rune, ...).
type PatchNoteEntry struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	ImageURL   *string       `json:"imageUrl,omitempty"`
	Category   PatchCategory `json:"category"`
	ChangeType ChangeType    `json:"changeType"`
	Summary    string        `json:"summary"`
	Details    []ChangeBlock `json:"details"`
}

// ChangeLines returns every change line of the entry in document order.
func (e PatchNoteEntry) ChangeLines() []string {
	var lines []string
	for _, block := range e.Details {
		lines = append(lines, block.Changes...)
	}
	return lines
}

// ChangeBlock groups the change lines of one ability or stat group.
type ChangeBlock struct {
	Title   *string  `json:"title,omitempty"` // Ability name or "Base Stats"
	IconURL *string  `json:"iconUrl,omitempty"`
	Changes []string `json:"changes"`
}

type ChangeType string

const (
	ChangeBuff     ChangeType = "Buff"
	ChangeNerf     ChangeType = "Nerf"
	ChangeAdjusted ChangeType = "Adjusted"
	ChangeNew      ChangeType = "New"
	ChangeFix      ChangeType = "Fix"
	ChangeNone     ChangeType = "None"
)

type PatchCategory string

const (
	CategoryChampions  PatchCategory = "Champions"
	CategoryItems      PatchCategory = "Items"
	CategoryRunes      PatchCategory = "Runes"
	CategoryItemsRunes PatchCategory = "ItemsRunes"
	CategoryModes      PatchCategory = "Modes"
	CategorySkins      PatchCategory = "Skins"
	CategorySystems    PatchCategory = "Systems"
	CategoryBugFixes   PatchCategory = "BugFixes"
	CategoryNewContent PatchCategory = "NewContent"
	CategoryCosmetics  PatchCategory = "Cosmetics"
	CategoryUnknown    PatchCategory = "Unknown"
)

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
