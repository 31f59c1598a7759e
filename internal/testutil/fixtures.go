package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/trend"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BaseFetchedAt is the default fetch time of built snapshots.
var BaseFetchedAt = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

// SnapshotBuilder creates patch snapshots with a builder pattern
type SnapshotBuilder struct {
	snapshot domain.PatchSnapshot
}

// NewSnapshotBuilder creates a new SnapshotBuilder with no champions and no notes
func NewSnapshotBuilder(version string) *SnapshotBuilder {
	return &SnapshotBuilder{
		snapshot: domain.PatchSnapshot{
			Version:    version,
			FetchedAt:  BaseFetchedAt,
			Champions:  []domain.ChampionStats{},
			PatchNotes: []domain.PatchNoteEntry{},
		},
	}
}

// FetchedAt sets the fetch time
func (b *SnapshotBuilder) FetchedAt(at time.Time) *SnapshotBuilder {
	b.snapshot.FetchedAt = at
	return b
}

// WithChampion adds a stats row
func (b *SnapshotBuilder) WithChampion(name string, role domain.LaneRole, winRate, pickRate float64) *SnapshotBuilder {
	b.snapshot.Champions = append(b.snapshot.Champions, domain.ChampionStats{
		ID:           name,
		Name:         name,
		Tier:         "B",
		Role:         role,
		WinRate:      winRate,
		PickRate:     pickRate,
		CoreItems:    []domain.ItemStat{},
		PopularRunes: []string{},
	})
	return b
}

// WithNote adds a patch note
func (b *SnapshotBuilder) WithNote(note domain.PatchNoteEntry) *SnapshotBuilder {
	b.snapshot.PatchNotes = append(b.snapshot.PatchNotes, note)
	return b
}

// Build returns a copy of the snapshot
func (b *SnapshotBuilder) Build() *domain.PatchSnapshot {
	s := b.snapshot
	s.Champions = append([]domain.ChampionStats{}, b.snapshot.Champions...)
	s.PatchNotes = append([]domain.PatchNoteEntry{}, b.snapshot.PatchNotes...)
	return &s
}

// NewNote creates a note whose change lines sit in one untitled block. The
// change type is classified from the lines the way extraction does it.
func NewNote(title string, category domain.PatchCategory, lines ...string) domain.PatchNoteEntry {
	return domain.PatchNoteEntry{
		ID:         title,
		Title:      title,
		Category:   category,
		ChangeType: trend.Classify(strings.Join(lines, " ")),
		Details: []domain.ChangeBlock{
			{Changes: append([]string{}, lines...)},
		},
	}
}

// ChampionBuilder creates test champions
type ChampionBuilder struct {
	id       string
	key      string
	name     string
	nameEn   string
	title    string
	imageURL string
	tags     []string
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	id := fmt.Sprintf("Champion%d", time.Now().UnixNano()%10000)
	return &ChampionBuilder{
		id:       id,
		key:      id,
		name:     id,
		nameEn:   id,
		title:    "The Test Champion",
		imageURL: fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/15.1.1/img/champion/%s.png", id),
		tags:     []string{"Fighter"},
	}
}

// WithID sets the champion ID
func (b *ChampionBuilder) WithID(id string) *ChampionBuilder {
	b.id = id
	b.key = id
	b.name = id
	b.nameEn = id
	b.imageURL = fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/15.1.1/img/champion/%s.png", id)
	return b
}

// WithName sets the localized champion name
func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.name = name
	return b
}

// WithTitle sets the champion title
func (b *ChampionBuilder) WithTitle(title string) *ChampionBuilder {
	b.title = title
	return b
}

// WithTags sets the champion tags
func (b *ChampionBuilder) WithTags(tags []string) *ChampionBuilder {
	b.tags = tags
	return b
}

// Champion returns the champion without storing it
func (b *ChampionBuilder) Champion() *domain.Champion {
	tagsJSON, _ := json.Marshal(b.tags)
	return &domain.Champion{
		ID:           b.id,
		Key:          b.key,
		Name:         b.name,
		NameEn:       b.nameEn,
		Title:        b.title,
		ImageURL:     b.imageURL,
		Tags:         datatypes.JSON(tagsJSON),
		LastSyncedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Build creates the champion in the database
func (b *ChampionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Champion {
	t.Helper()

	champion := b.Champion()
	if err := db.Create(champion).Error; err != nil {
		t.Fatalf("failed to create champion: %v", err)
	}

	return champion
}

// SeedChampions creates multiple test champions
func SeedChampions(t *testing.T, db *gorm.DB, count int) []*domain.Champion {
	t.Helper()

	champions := make([]*domain.Champion, count)
	for i := 0; i < count; i++ {
		champions[i] = NewChampionBuilder().
			WithID(fmt.Sprintf("TestChampion%d", i)).
			WithName(fmt.Sprintf("Test Champion %d", i)).
			Build(t, db)
	}
	return champions
}
