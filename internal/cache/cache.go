// Package cache is the wizard's local durable cache: a small SQLite
// key/value file that lets an interrupted wizard resume.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/forgeplan/internal/models"
	_ "modernc.org/sqlite"
)

// Key is the single cache entry the wizard uses.
const Key = "workoutWizardData"

// MaxAge is how long a saved wizard stays resumable.
const MaxAge = 24 * time.Hour

// Store is a SQLite-backed wizard cache.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the cache database at dir/wizard.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return OpenFile(filepath.Join(dir, "wizard.db"))
}

// OpenFile opens (or creates) the cache database at path.
func OpenFile(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// SetClock replaces the time source used for freshness checks.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Load returns the saved wizard snapshot. A missing, unreadable or
// stale entry reports false; stale and unreadable entries are removed.
func (s *Store) Load(ctx context.Context) (models.WizardSnapshot, bool, error) {
	var snap models.WizardSnapshot
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("reading wizard cache: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return models.WizardSnapshot{}, false, s.Clear(ctx)
	}
	saved := time.UnixMilli(snap.Timestamp)
	if s.now().Sub(saved) > MaxAge {
		return models.WizardSnapshot{}, false, s.Clear(ctx)
	}
	return snap, true, nil
}

// Save stores snap, stamping it with the current time.
func (s *Store) Save(ctx context.Context, snap models.WizardSnapshot) error {
	snap.Timestamp = s.now().UnixMilli()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding wizard cache: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		Key, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing wizard cache: %w", err)
	}
	return nil
}

// Clear removes the saved snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, Key); err != nil {
		return fmt.Errorf("clearing wizard cache: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (s *Store) Close() error {
	return s.db.Close()
}
