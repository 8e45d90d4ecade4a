package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/forgeplan/internal/session"
	"github.com/jackc/pgx/v5"
)

// Load returns the stored data for id, or zero data when id is unknown.
func (db *DB) Load(ctx context.Context, id string) (session.Data, error) {
	var d session.Data
	var raw []byte
	err := db.Pool.QueryRow(ctx, `SELECT data FROM sessions WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("loading session %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return session.Data{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return d, nil
}

// Update runs fn against the row for id inside a transaction holding a
// row lock, creating the row on first use.
func (db *DB) Update(ctx context.Context, id string, fn func(*session.Data) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning session update: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO sessions (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
		return fmt.Errorf("creating session %s: %w", id, err)
	}

	var raw []byte
	if err := tx.QueryRow(ctx,
		`SELECT data FROM sessions WHERE id = $1 FOR UPDATE`, id).Scan(&raw); err != nil {
		return fmt.Errorf("locking session %s: %w", id, err)
	}
	var d session.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("decoding session %s: %w", id, err)
	}

	if err := fn(&d); err != nil {
		return err
	}

	out, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE sessions SET data = $2, updated_at = now() WHERE id = $1`, id, out); err != nil {
		return fmt.Errorf("saving session %s: %w", id, err)
	}
	return tx.Commit(ctx)
}

// Destroy deletes the session row.
func (db *DB) Destroy(ctx context.Context, id string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// PurgeExpired deletes sessions last updated before the cutoff.
func (db *DB) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
