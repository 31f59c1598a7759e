// Package sqlite provides the single-file snapshot store used by default.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/repository"
	"gorm.io/datatypes"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store persists snapshots and the champion catalog in SQLite. It serves as
// both repository.PatchRepository and repository.ChampionRepository.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the database file at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps VACUUM off concurrent readers.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{Patch: s, Champion: s}
}

func (s *Store) Put(ctx context.Context, snapshot *domain.PatchSnapshot) error {
	data, err := repository.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO patches (version, fetched_at, data_json) VALUES (?, ?, ?)
		 ON CONFLICT(version) DO UPDATE SET
		   fetched_at = excluded.fetched_at,
		   data_json = excluded.data_json`,
		snapshot.Version,
		toMillis(snapshot.FetchedAt),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("put patch %s: %w", snapshot.Version, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, version string) (*domain.PatchSnapshot, bool, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT version, fetched_at, data_json FROM patches WHERE version = ?`, version)
	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func (s *Store) GetRecent(ctx context.Context, limit int) ([]*domain.PatchSnapshot, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT version, fetched_at, data_json FROM patches
		 ORDER BY fetched_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent patches: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.PatchSnapshot, 0, limit)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent patches: %w", err)
	}
	return snapshots, nil
}

// Clear deletes every snapshot and compacts the file.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM patches`); err != nil {
		return fmt.Errorf("clear patches: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.PatchSnapshot, error) {
	var (
		snapshot  domain.PatchSnapshot
		fetchedAt int64
		data      string
	)
	if err := row.Scan(&snapshot.Version, &fetchedAt, &data); err != nil {
		return nil, err
	}
	snapshot.FetchedAt = fromMillis(fetchedAt)
	if err := repository.DecodeSnapshot(&snapshot, []byte(data)); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *Store) Upsert(ctx context.Context, champion *domain.Champion) error {
	return s.upsertChampion(ctx, s.sqlDB, champion)
}

func (s *Store) UpsertMany(ctx context.Context, champions []*domain.Champion) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin champion upsert: %w", err)
	}
	for _, champion := range champions {
		if err := s.upsertChampion(ctx, tx, champion); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsertChampion(ctx context.Context, db execer, c *domain.Champion) error {
	tags := string(c.Tags)
	if tags == "" {
		tags = "[]"
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO champions (id, key, name, name_en, title, image_url, tags, last_synced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   key = excluded.key,
		   name = excluded.name,
		   name_en = excluded.name_en,
		   title = excluded.title,
		   image_url = excluded.image_url,
		   tags = excluded.tags,
		   last_synced_at = excluded.last_synced_at`,
		c.ID, c.Key, c.Name, c.NameEn, c.Title, c.ImageURL, tags, toMillis(c.LastSyncedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert champion %s: %w", c.ID, err)
	}
	return nil
}

const championColumns = `id, key, name, name_en, title, image_url, tags, last_synced_at`

func (s *Store) GetAll(ctx context.Context) ([]*domain.Champion, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+championColumns+` FROM champions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query champions: %w", err)
	}
	defer rows.Close()

	var champions []*domain.Champion
	for rows.Next() {
		champion, err := scanChampion(rows)
		if err != nil {
			return nil, err
		}
		champions = append(champions, champion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate champions: %w", err)
	}
	return champions, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Champion, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+championColumns+` FROM champions WHERE id = ?`, id)
	champion, err := scanChampion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrChampionNotFound
	}
	return champion, err
}

func scanChampion(row scanner) (*domain.Champion, error) {
	var (
		c        domain.Champion
		tags     string
		syncedAt int64
	)
	if err := row.Scan(&c.ID, &c.Key, &c.Name, &c.NameEn, &c.Title, &c.ImageURL, &tags, &syncedAt); err != nil {
		return nil, err
	}
	c.Tags = datatypes.JSON(tags)
	c.LastSyncedAt = fromMillis(syncedAt)
	return &c, nil
}
