package service

import (
	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/metrics"
	"github.com/dom/patch-meta/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Patch    *PatchService
	Champion *ChampionService
}

// Sources groups the remote collaborators. Stats may be nil.
type Sources struct {
	Notes   NotesSource
	Catalog CatalogSource
	Stats   StatsSource
}

func NewServices(repos *repository.Repositories, sources Sources, emitter events.Emitter, m *metrics.Metrics, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(cfg),
		Patch: NewPatchService(PatchServiceDeps{
			Patches:   repos.Patch,
			Champions: repos.Champion,
			Notes:     sources.Notes,
			Stats:     sources.Stats,
			Events:    emitter,
			Metrics:   m,
		}, cfg),
		Champion: NewChampionService(repos.Champion, sources.Catalog, emitter, cfg),
	}
}
