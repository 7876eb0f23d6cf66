// Package snapshot keeps the last good CMS response per locale in SQLite so
// pages still render while the CMS is down.
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
	"github.com/louisbranch/showcase/internal/platform/storage/sqlitemigrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store is a SQLite-backed snapshot cache.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies migrations. Use
// ":memory:" for a process-local store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := sqlitemigrate.ApplyMigrations(ctx, db, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Save replaces the snapshot for lang.
func (s *Store) Save(ctx context.Context, lang string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO snapshots (lang, body, fetched_at) VALUES (?, ?, ?)
ON CONFLICT(lang) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		lang, body, s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", lang, err)
	}
	return nil
}

// Load returns the snapshot for lang and when it was fetched. A missing
// snapshot is a CodeSnapshotEmpty error.
func (s *Store) Load(ctx context.Context, lang string) ([]byte, time.Time, error) {
	var (
		body []byte
		at   int64
	)
	err := s.db.QueryRowContext(ctx, "SELECT body, fetched_at FROM snapshots WHERE lang = ?", lang).Scan(&body, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, apperrors.New(apperrors.CodeSnapshotEmpty, "no snapshot for "+lang)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot %s: %w", lang, err)
	}
	return body, time.UnixMilli(at).UTC(), nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
