package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/statsapi"
)

// FakeNotes serves patch notes from memory. Versions missing from Notes fail
// with a 404 NetworkError.
type FakeNotes struct {
	mu       sync.Mutex
	Notes    map[string][]domain.PatchNoteEntry
	Versions []string
	Fetched  []string
}

func NewFakeNotes() *FakeNotes {
	return &FakeNotes{Notes: map[string][]domain.PatchNoteEntry{}}
}

func (f *FakeNotes) FetchPatchNotes(ctx context.Context, version string) ([]domain.PatchNoteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fetched = append(f.Fetched, version)
	notes, ok := f.Notes[version]
	if !ok {
		return nil, &domain.NetworkError{URL: fmt.Sprintf("patch-%s-notes", version), StatusCode: 404}
	}
	return append([]domain.PatchNoteEntry{}, notes...), nil
}

func (f *FakeNotes) AvailablePatches(ctx context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.Versions...)
}

// FetchCount returns how many fetches were made.
func (f *FakeNotes) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Fetched)
}

// FakeStats serves statistics rows per patch.
type FakeStats struct {
	Rows       map[string][]statsapi.Row
	Err        error
	Filters    []statsapi.Filter
	PatchList  []string
	PatchesErr error
}

func (f *FakeStats) Patches(ctx context.Context) ([]string, error) {
	if f.PatchesErr != nil {
		return nil, f.PatchesErr
	}
	return append([]string{}, f.PatchList...), nil
}

func (f *FakeStats) ChampionStats(ctx context.Context, filter statsapi.Filter) ([]statsapi.Row, error) {
	f.Filters = append(f.Filters, filter)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Rows[filter.Patch], nil
}

// FakeCatalog serves a fixed champion catalog.
type FakeCatalog struct {
	Version string
	List    []*domain.Champion
	Err     error
}

func (f *FakeCatalog) LatestDataDragonVersion(ctx context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Version, nil
}

func (f *FakeCatalog) Champions(ctx context.Context, version string) ([]*domain.Champion, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.List, nil
}
