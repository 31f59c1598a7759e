package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/metrics"
	"github.com/dom/patch-meta/internal/repository"
	"github.com/dom/patch-meta/internal/scraper"
	"github.com/dom/patch-meta/internal/statsapi"
)

// PatchService owns the snapshot history and the tier list memo. mu
// serializes every store access and memo lookup; remote fetches run
// outside it.
type PatchService struct {
	mu        sync.Mutex
	patches   repository.PatchRepository
	champions repository.ChampionRepository
	notes     NotesSource
	stats     StatsSource
	tiers     *analysis.TierAggregator
	events    events.Emitter
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

type PatchServiceDeps struct {
	Patches   repository.PatchRepository
	Champions repository.ChampionRepository
	Notes     NotesSource
	Stats     StatsSource // nil when no stats API is configured
	Events    events.Emitter
	Metrics   *metrics.Metrics
}

func NewPatchService(deps PatchServiceDeps, cfg *config.Config) *PatchService {
	emitter := deps.Events
	if emitter == nil {
		emitter = events.Discard
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &PatchService{
		patches:   deps.Patches,
		champions: deps.Champions,
		notes:     deps.Notes,
		stats:     deps.Stats,
		tiers:     analysis.NewTierAggregator(),
		events:    emitter,
		metrics:   m,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FetchSnapshot assembles a fresh snapshot from the remote sources without
// touching the store.
func (s *PatchService) FetchSnapshot(ctx context.Context, version string) (*domain.PatchSnapshot, error) {
	start := time.Now()
	snapshot, err := s.fetchSnapshot(ctx, version)
	s.metrics.ObserveFetch(start, err)
	return snapshot, err
}

func (s *PatchService) fetchSnapshot(ctx context.Context, version string) (*domain.PatchSnapshot, error) {
	champions := s.fetchChampionStats(ctx, version)

	notes, err := s.notes.FetchPatchNotes(ctx, version)
	if err != nil {
		if len(champions) == 0 {
			return nil, fmt.Errorf("fetch patch notes %s: %w", version, err)
		}
		log.Printf("ERROR [service.FetchSnapshot] patch notes %s: %v", version, err)
		notes = []domain.PatchNoteEntry{}
	}

	if len(champions) == 0 {
		champions = championsFromNotes(notes)
	}

	return &domain.PatchSnapshot{
		Version:    version,
		FetchedAt:  s.now(),
		Champions:  champions,
		PatchNotes: notes,
	}, nil
}

// fetchChampionStats returns nil when stats are unavailable for any reason.
func (s *PatchService) fetchChampionStats(ctx context.Context, version string) []domain.ChampionStats {
	if s.stats == nil {
		return nil
	}
	rows, err := s.stats.ChampionStats(ctx, statsapi.Filter{
		Patch:  version,
		Region: s.cfg.StatsRegion,
		Tier:   s.cfg.StatsTier,
	})
	if err != nil {
		log.Printf("ERROR [service.FetchSnapshot] stats %s: %v", version, err)
		return nil
	}
	return statsapi.ToChampionStats(rows, s.catalog(ctx))
}

func (s *PatchService) catalog(ctx context.Context) map[string]statsapi.CatalogEntry {
	catalog := map[string]statsapi.CatalogEntry{}
	if s.champions == nil {
		return catalog
	}
	champions, err := s.champions.GetAll(ctx)
	if err != nil {
		log.Printf("ERROR [service.catalog] load champions: %v", err)
		return catalog
	}
	for _, c := range champions {
		catalog[c.ID] = statsapi.CatalogEntry{Name: c.Name, ImageURL: c.ImageURL}
	}
	return catalog
}

// championsFromNotes stands in for missing statistics with one neutral row
// per champion mentioned in the notes.
func championsFromNotes(notes []domain.PatchNoteEntry) []domain.ChampionStats {
	champions := []domain.ChampionStats{}
	for _, note := range notes {
		if note.Category != domain.CategoryChampions {
			continue
		}
		champions = append(champions, domain.ChampionStats{
			ID:           note.Title,
			Name:         note.Title,
			Tier:         "?",
			Role:         domain.LaneMid,
			WinRate:      50,
			ImageURL:     note.ImageURL,
			CoreItems:    []domain.ItemStat{},
			PopularRunes: []string{},
		})
	}
	return champions
}

// GetPatch returns the stored snapshot of version, fetching and storing it
// when absent or when force is set. A failed store write is logged and the
// fetched snapshot is still returned.
func (s *PatchService) GetPatch(ctx context.Context, version string, force bool) (*domain.PatchSnapshot, error) {
	if !force {
		s.mu.Lock()
		snapshot, found, err := s.patches.Get(ctx, version)
		s.mu.Unlock()
		if err != nil {
			s.metrics.StoreErrors.WithLabelValues("get").Inc()
			return nil, err
		}
		if found {
			return snapshot, nil
		}
	}

	s.events.Emit(events.Infof("Fetching patch %s", version))
	snapshot, err := s.FetchSnapshot(ctx, version)
	if err != nil {
		s.events.Emit(events.Errorf("Failed to fetch patch %s: %v", version, err))
		return nil, err
	}

	s.mu.Lock()
	err = s.patches.Put(ctx, snapshot)
	s.mu.Unlock()
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("put").Inc()
		log.Printf("ERROR [service.GetPatch] store %s: %v", version, err)
		s.events.Emit(events.Errorf("Failed to save patch %s: %v", version, err))
		return snapshot, nil
	}

	s.events.Emit(events.Successf("Patch %s saved: %d champions, %d notes",
		version, len(snapshot.Champions), len(snapshot.PatchNotes)))
	return snapshot, nil
}

// AnalyzePatch diffs version against the most recent stored snapshot of a
// different version.
func (s *PatchService) AnalyzePatch(ctx context.Context, version string, force bool) ([]domain.MetaAnalysisDiff, error) {
	current, err := s.GetPatch(ctx, version, force)
	if err != nil {
		return nil, err
	}

	recent, err := s.recent(ctx, s.cfg.AnalyzeWindow)
	if err != nil {
		return nil, err
	}

	var previous *domain.PatchSnapshot
	for _, snapshot := range recent {
		if snapshot.Version != current.Version {
			previous = snapshot
			break
		}
	}
	if previous == nil {
		return []domain.MetaAnalysisDiff{}, nil
	}
	return analysis.Diff(current, previous), nil
}

// LatestPatch returns the most recently fetched snapshot.
func (s *PatchService) LatestPatch(ctx context.Context) (*domain.PatchSnapshot, error) {
	recent, err := s.recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, domain.ErrPatchNotFound
	}
	return recent[0], nil
}

// AvailablePatches lists known patch versions, newest first. Patches the
// stats API has data for are merged in when it is configured.
func (s *PatchService) AvailablePatches(ctx context.Context) []string {
	versions := s.notes.AvailablePatches(ctx)
	if s.stats == nil {
		return versions
	}

	extra, err := s.stats.Patches(ctx)
	if err != nil {
		log.Printf("ERROR [service.AvailablePatches] stats patches: %v", err)
		return versions
	}

	seen := make(map[string]bool, len(versions))
	for _, v := range versions {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] && scraper.ValidVersion(v) {
			seen[v] = true
			versions = append(versions, v)
		}
	}
	scraper.SortVersionsDesc(versions)
	return versions
}

func (s *PatchService) ChampionHistory(ctx context.Context, name string) ([]domain.HistoryEntry, error) {
	return s.history(ctx, analysis.HistoryChampion, name)
}

func (s *PatchService) ItemHistory(ctx context.Context, name string) ([]domain.HistoryEntry, error) {
	return s.history(ctx, analysis.HistoryItem, name)
}

func (s *PatchService) RuneHistory(ctx context.Context, name string) ([]domain.HistoryEntry, error) {
	return s.history(ctx, analysis.HistoryRune, name)
}

// History returns every note about name within kind's categories over the
// recent snapshots, oldest first.
func (s *PatchService) History(ctx context.Context, kind analysis.HistoryKind, name string) ([]domain.HistoryEntry, error) {
	return s.history(ctx, kind, name)
}

func (s *PatchService) history(ctx context.Context, kind analysis.HistoryKind, name string) ([]domain.HistoryEntry, error) {
	recent, err := s.recent(ctx, s.cfg.HistoryWindow)
	if err != nil {
		return nil, err
	}
	return analysis.History(recent, kind, name), nil
}

// ChangedItemsRunesTitles lists the distinct titles of combined items/runes
// notes over the recent snapshots.
func (s *PatchService) ChangedItemsRunesTitles(ctx context.Context) ([]string, error) {
	recent, err := s.recent(ctx, s.cfg.HistoryWindow)
	if err != nil {
		return nil, err
	}
	return analysis.ChangedTitles(recent, domain.CategoryItemsRunes), nil
}

// TierList ranks everything changed over the recent snapshots. The ranking
// is memoized until the set of recent snapshots changes.
func (s *PatchService) TierList(ctx context.Context) ([]domain.TierEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent, err := s.patches.GetRecent(ctx, s.cfg.TierWindow)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("get_recent").Inc()
		return nil, err
	}

	list, hit := s.tiers.Rank(recent)
	s.metrics.ObserveTierCache(hit)
	if hit {
		s.events.Emit(events.Infof("Tier list served from cache"))
	} else {
		s.events.Emit(events.Successf("Tier list rebuilt from %d patches", len(recent)))
	}
	return list.Entries, nil
}

// SyncHistory fetches and stores every available patch that is not stored
// yet, one at a time with a pause after each fetch. Failed versions are
// logged and skipped. Cancelling ctx stops the loop between versions.
func (s *PatchService) SyncHistory(ctx context.Context) (domain.BackfillSummary, error) {
	var summary domain.BackfillSummary

	versions := s.notes.AvailablePatches(ctx)
	s.events.Emit(events.Infof("Backfill: %d known patches", len(versions)))

	for _, version := range versions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++

		s.mu.Lock()
		_, found, err := s.patches.Get(ctx, version)
		s.mu.Unlock()
		if err != nil {
			s.metrics.StoreErrors.WithLabelValues("get").Inc()
			return summary, err
		}
		if found {
			s.metrics.BackfillPatches.WithLabelValues("skipped").Inc()
			continue
		}

		if err := s.backfillOne(ctx, version); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			summary.Failed++
			s.metrics.BackfillPatches.WithLabelValues("failed").Inc()
			log.Printf("ERROR [service.SyncHistory] patch %s: %v", version, err)
			s.events.Emit(events.Errorf("Backfill: patch %s failed: %v", version, err))
		} else {
			summary.Fetched++
			s.metrics.BackfillPatches.WithLabelValues("fetched").Inc()
			s.events.Emit(events.Successf("Backfill: patch %s saved", version))
		}

		if err := s.sleep(ctx, s.cfg.BackfillDelay); err != nil {
			return summary, err
		}
	}

	s.events.Emit(events.Successf("Backfill finished: %d checked, %d fetched, %d failed",
		summary.Checked, summary.Fetched, summary.Failed))
	return summary, nil
}

func (s *PatchService) backfillOne(ctx context.Context, version string) error {
	snapshot, err := s.FetchSnapshot(ctx, version)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.patches.Put(ctx, snapshot); err != nil {
		s.metrics.StoreErrors.WithLabelValues("put").Inc()
		return err
	}
	return nil
}

// Clear deletes every stored snapshot and drops the tier list memo.
func (s *PatchService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.patches.Clear(ctx); err != nil {
		s.metrics.StoreErrors.WithLabelValues("clear").Inc()
		return err
	}
	s.tiers.Invalidate()
	s.events.Emit(events.Successf("Patch history cleared"))
	return nil
}

func (s *PatchService) recent(ctx context.Context, limit int) ([]*domain.PatchSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent, err := s.patches.GetRecent(ctx, limit)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("get_recent").Inc()
		return nil, err
	}
	return recent, nil
}
