package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatchRecord is the stored row of one patch snapshot.
type PatchRecord struct {
	ID        uint           `gorm:"primaryKey"`
	Version   string         `gorm:"uniqueIndex;not null"`
	FetchedAt time.Time      `gorm:"index;not null"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (PatchRecord) TableName() string {
	return "patches"
}

type patchRepository struct {
	db *gorm.DB
}

func NewPatchRepository(db *gorm.DB) *patchRepository {
	return &patchRepository{db: db}
}

func (r *patchRepository) Put(ctx context.Context, snapshot *domain.PatchSnapshot) error {
	data, err := repository.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	record := &PatchRecord{
		Version:   snapshot.Version,
		FetchedAt: snapshot.FetchedAt.UTC(),
		Data:      datatypes.JSON(data),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"fetched_at", "data"}),
	}).Create(record).Error
}

func (r *patchRepository) Get(ctx context.Context, version string) (*domain.PatchSnapshot, bool, error) {
	var record PatchRecord
	err := r.db.WithContext(ctx).First(&record, "version = ?", version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	snapshot, err := toSnapshot(&record)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func (r *patchRepository) GetRecent(ctx context.Context, limit int) ([]*domain.PatchSnapshot, error) {
	var records []PatchRecord
	err := r.db.WithContext(ctx).
		Order("fetched_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]*domain.PatchSnapshot, 0, len(records))
	for i := range records {
		snapshot, err := toSnapshot(&records[i])
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (r *patchRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&PatchRecord{}).Error
}

func toSnapshot(record *PatchRecord) (*domain.PatchSnapshot, error) {
	snapshot := &domain.PatchSnapshot{
		Version:   record.Version,
		FetchedAt: record.FetchedAt.UTC(),
	}
	if err := repository.DecodeSnapshot(snapshot, record.Data); err != nil {
		return nil, err
	}
	return snapshot, nil
}
