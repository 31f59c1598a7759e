package service

import (
	"context"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/statsapi"
)

// NotesSource supplies patch notes and the list of known patch versions.
// *scraper.Client implements it.
type NotesSource interface {
	FetchPatchNotes(ctx context.Context, version string) ([]domain.PatchNoteEntry, error)
	AvailablePatches(ctx context.Context) []string
}

// CatalogSource supplies the Data Dragon champion catalog. *scraper.Client implements it.
type CatalogSource interface {
	LatestDataDragonVersion(ctx context.Context) (string, error)
	Champions(ctx context.Context, version string) ([]*domain.Champion, error)
}

// StatsSource supplies aggregated champion statistics. *statsapi.Client implements it.
type StatsSource interface {
	ChampionStats(ctx context.Context, f statsapi.Filter) ([]statsapi.Row, error)
	Patches(ctx context.Context) ([]string, error)
}
