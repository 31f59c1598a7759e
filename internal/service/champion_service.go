package service

import (
	"context"
	"fmt"

	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/repository"
)

type ChampionService struct {
	championRepo repository.ChampionRepository
	catalog      CatalogSource
	events       events.Emitter
	cfg          *config.Config
}

func NewChampionService(championRepo repository.ChampionRepository, catalog CatalogSource, emitter events.Emitter, cfg *config.Config) *ChampionService {
	if emitter == nil {
		emitter = events.Discard
	}
	return &ChampionService{
		championRepo: championRepo,
		catalog:      catalog,
		events:       emitter,
		cfg:          cfg,
	}
}

func (s *ChampionService) GetAllChampions(ctx context.Context) ([]*domain.Champion, error) {
	return s.championRepo.GetAll(ctx)
}

func (s *ChampionService) GetChampion(ctx context.Context, id string) (*domain.Champion, error) {
	return s.championRepo.GetByID(ctx, id)
}

// SyncFromDataDragon refreshes the champion catalog and returns the number of
// champions stored and the Data Dragon version used.
func (s *ChampionService) SyncFromDataDragon(ctx context.Context) (int, string, error) {
	version, err := s.GetLatestVersion(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("failed to get latest version: %w", err)
	}

	s.events.Emit(events.Infof("Syncing champions from Data Dragon %s", version))
	champions, err := s.catalog.Champions(ctx, version)
	if err != nil {
		s.events.Emit(events.Errorf("Champion sync failed: %v", err))
		return 0, "", fmt.Errorf("failed to fetch champions: %w", err)
	}

	if err := s.championRepo.UpsertMany(ctx, champions); err != nil {
		s.events.Emit(events.Errorf("Champion sync failed: %v", err))
		return 0, "", fmt.Errorf("failed to upsert champions: %w", err)
	}

	s.events.Emit(events.Successf("Synced %d champions", len(champions)))
	return len(champions), version, nil
}

// GetLatestVersion returns the configured Data Dragon version, or the newest published one.
func (s *ChampionService) GetLatestVersion(ctx context.Context) (string, error) {
	if s.cfg.DataDragonVersion != "" {
		return s.cfg.DataDragonVersion, nil
	}
	return s.catalog.LatestDataDragonVersion(ctx)
}
