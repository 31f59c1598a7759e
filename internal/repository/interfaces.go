package repository

import (
	"context"

	"github.com/dom/patch-meta/internal/domain"
)

// PatchRepository is the snapshot history store. Snapshots are keyed by
// version; Put replaces an existing snapshot with the same version.
type PatchRepository interface {
	Put(ctx context.Context, snapshot *domain.PatchSnapshot) error
	// Get reports found=false, with a nil error, when the version is not stored.
	Get(ctx context.Context, version string) (*domain.PatchSnapshot, bool, error)
	// GetRecent returns at most limit snapshots, newest fetchedAt first.
	GetRecent(ctx context.Context, limit int) ([]*domain.PatchSnapshot, error)
	Clear(ctx context.Context) error
}

type ChampionRepository interface {
	Upsert(ctx context.Context, champion *domain.Champion) error
	UpsertMany(ctx context.Context, champions []*domain.Champion) error
	GetAll(ctx context.Context) ([]*domain.Champion, error)
	GetByID(ctx context.Context, id string) (*domain.Champion, error)
}

type Repositories struct {
	Patch    PatchRepository
	Champion ChampionRepository
}
