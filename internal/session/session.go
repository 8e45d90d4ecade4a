// Package session defines the server-side session store port and an
// in-memory implementation. The PostgreSQL implementation lives in
// internal/storage.
package session

import (
	"context"
	"time"

	"github.com/claude/forgeplan/internal/models"
	"github.com/google/uuid"
)

// Data is everything kept for one session.
type Data struct {
	FormData        models.FormData          `json:"form_data"`
	UserPreferences *models.UserProfile      `json:"user_preferences,omitempty"`
	Result          *models.GenerationResult `json:"result,omitempty"`
}

// Store persists session data keyed by an opaque session ID.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the data for id. An unknown id yields zero Data.
	Load(ctx context.Context, id string) (Data, error)
	// Update applies fn to the current data for id and stores the result
	// atomically. Nothing is written when fn returns an error.
	Update(ctx context.Context, id string, fn func(*Data) error) error
	// Destroy removes id.
	Destroy(ctx context.Context, id string) error
	// PurgeExpired removes sessions not updated since before and returns
	// how many were removed.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// GenerationLog records one plan generation attempt.
type GenerationLog struct {
	ID           uuid.UUID `json:"id"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Goal         string    `json:"goal"`
	FitnessLevel string    `json:"fitness_level"`
	DaysPerWeek  int       `json:"days_per_week"`
	Exercises    int       `json:"exercises"`
	DurationMs   int       `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// Generation sources and statuses.
const (
	SourceWizard = "wizard"
	SourceLegacy = "legacy"
	SourceMCP    = "mcp"

	StatusSuccess = "success"
	StatusError   = "error"
)

// NewGenerationLog builds the history entry for one engine run over p.
// result is only read when genErr is nil.
func NewGenerationLog(sessionID, source string, p models.UserProfile, result *models.GenerationResult, elapsed time.Duration, genErr error) GenerationLog {
	entry := GenerationLog{
		SessionID:    sessionID,
		Source:       source,
		Status:       StatusSuccess,
		Goal:         string(p.Goal),
		FitnessLevel: string(p.FitnessLevel),
		DaysPerWeek:  p.DaysPerWeek,
		DurationMs:   int(elapsed.Milliseconds()),
	}
	if genErr != nil {
		msg := genErr.Error()
		entry.Status = StatusError
		entry.ErrorMessage = &msg
		return entry
	}
	if result != nil {
		for _, d := range result.Plan {
			entry.Exercises += len(d.Exercises)
		}
	}
	return entry
}

// LogStore keeps the generation history.
type LogStore interface {
	InsertGenerationLog(ctx context.Context, log GenerationLog) error
	QueryGenerationLogs(ctx context.Context, sessionID string, limit int) ([]GenerationLog, error)
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}
