package storage

import (
	"context"
	"fmt"

	"github.com/claude/forgeplan/internal/session"
	"github.com/google/uuid"
)

// InsertGenerationLog records one generation attempt.
func (db *DB) InsertGenerationLog(ctx context.Context, log session.GenerationLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO generation_logs (id, session_id, source, status, goal, fitness_level,
		 days_per_week, exercises, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		log.ID, log.SessionID, log.Source, log.Status, log.Goal, log.FitnessLevel,
		log.DaysPerWeek, log.Exercises, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("inserting generation log: %w", err)
	}
	return nil
}

// QueryGenerationLogs returns the most recent generation logs for a session.
func (db *DB) QueryGenerationLogs(ctx context.Context, sessionID string, limit int) ([]session.GenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, created_at, source, status, goal, fitness_level,
		 days_per_week, exercises, duration_ms, error_message
		 FROM generation_logs
		 WHERE session_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying generation logs: %w", err)
	}
	defer rows.Close()

	var result []session.GenerationLog
	for rows.Next() {
		var l session.GenerationLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.CreatedAt, &l.Source, &l.Status,
			&l.Goal, &l.FitnessLevel, &l.DaysPerWeek, &l.Exercises, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning generation log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
