package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/client"
	"github.com/claude/forgeplan/internal/engine"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/normalize"
	"github.com/claude/forgeplan/internal/session"
)

// Backend abstracts where plans come from. Local runs the engine in
// process; *client.Client forwards to a running forgeplan server.
type Backend interface {
	Exercises(ctx context.Context, equipment []models.Equipment) ([]models.Exercise, error)
	GenerateOnce(ctx context.Context, form map[string]any) (*models.GenerateResponse, error)
}

// Compile-time check: the HTTP client satisfies Backend.
var _ Backend = (*client.Client)(nil)

// mcpSessionID tags generation history written by the in-process backend.
const mcpSessionID = "mcp"

// Local generates plans in process.
type Local struct {
	gen  *engine.Generator
	logs session.LogStore
	log  *slog.Logger
}

// NewLocal creates an in-process backend. logs may be nil.
func NewLocal(gen *engine.Generator, logs session.LogStore, log *slog.Logger) *Local {
	return &Local{gen: gen, logs: logs, log: log}
}

func (l *Local) Exercises(_ context.Context, equipment []models.Equipment) ([]models.Exercise, error) {
	if len(equipment) == 0 {
		return l.gen.Catalog().All(), nil
	}
	return l.gen.Catalog().ForEquipment(equipment), nil
}

func (l *Local) GenerateOnce(ctx context.Context, form map[string]any) (*models.GenerateResponse, error) {
	profile := normalize.Legacy(form)
	if errs := normalize.Check(profile); len(errs) > 0 {
		return nil, apierr.WithFields(apierr.IncompleteData, "Incomplete form data", errs)
	}

	start := time.Now()
	result, err := l.gen.Generate(profile)
	l.record(ctx, profile, result, time.Since(start), err)
	if err != nil {
		return nil, apierr.Wrap(apierr.GenerationError, "Failed to generate workout", err)
	}
	resp := models.NewGenerateResponse(profile, result, "")
	return &resp, nil
}

func (l *Local) record(ctx context.Context, p models.UserProfile, result *models.GenerationResult, elapsed time.Duration, genErr error) {
	if l.logs == nil {
		return
	}
	entry := session.NewGenerationLog(mcpSessionID, session.SourceMCP, p, result, elapsed, genErr)
	if err := l.logs.InsertGenerationLog(ctx, entry); err != nil {
		l.log.Warn("mcp: recording generation", "error", err)
	}
}
