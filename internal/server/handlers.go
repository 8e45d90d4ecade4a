package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/normalize"
	"github.com/claude/forgeplan/internal/session"
	"github.com/claude/forgeplan/internal/validation"
)

const maxBodyBytes = 1 << 20

// workoutPath is where generated plans can be fetched again.
const workoutPath = "/api/v1/workout"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readEnvelope(w http.ResponseWriter, r *http.Request) (validation.Envelope, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return validation.Envelope{}, apierr.Wrap(apierr.InvalidInput, "Invalid JSON input", err)
	}
	env, err := validation.CheckEnvelope(body)
	if err != nil {
		return validation.Envelope{}, apierr.Wrap(apierr.InvalidInput, "Invalid JSON input", err)
	}
	return env, nil
}

func validationFailed(res validation.Result) *apierr.Error {
	return apierr.WithFields(apierr.ValidationFailed, "Validation failed", res.Errors)
}

func (s *Server) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	env, err := readEnvelope(w, r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	res := validation.Validate(env.Step, env.Data)
	if !res.Valid {
		writeError(w, validationFailed(res), res)
		return
	}
	writeData(w, map[string]any{"valid": true, "message": "Validation passed"})
}

func (s *Server) handleSaveStep(w http.ResponseWriter, r *http.Request) {
	env, err := readEnvelope(w, r)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	data, res := validation.Decode(env.Step, env.Data)
	if !res.Valid {
		writeError(w, validationFailed(res), res)
		return
	}

	err = s.store.Update(r.Context(), sessionIDFromContext(r), func(d *session.Data) error {
		d.FormData.Set(data)
		d.FormData.CurrentStep = env.Step
		d.FormData.LastUpdated = time.Now().Unix()
		return nil
	})
	if err != nil {
		s.log.Error("saving step", "step", env.Step, "error", err)
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to save step data", err), nil)
		return
	}
	writeData(w, models.StepSaved{Saved: true, Step: env.Step, Message: "Step data saved successfully"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := sessionIDFromContext(r)
	d, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.log.Error("loading session", "error", err)
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to load session", err), nil)
		return
	}
	view := models.SessionView{
		FormData:        d.FormData,
		UserPreferences: d.UserPreferences,
		SessionID:       id,
	}
	if d.Result != nil {
		view.WorkoutPlan = d.Result.Plan
	}
	writeData(w, view)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Destroy(r.Context(), sessionIDFromContext(r)); err != nil {
		s.log.Error("clearing session", "error", err)
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to clear session", err), nil)
		return
	}
	writeData(w, map[string]any{"cleared": true, "message": "Session cleared successfully"})
}

// handleGenerate builds a plan from the steps saved in the session.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	id := sessionIDFromContext(r)
	d, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.log.Error("loading session", "error", err)
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to load session", err), nil)
		return
	}
	if d.FormData.Empty() {
		writeError(w, apierr.New(apierr.NoFormData, "No form data found in session"), nil)
		return
	}

	profile := normalize.Profile(d.FormData)
	if errs := normalize.Check(profile); len(errs) > 0 {
		writeError(w, apierr.WithFields(apierr.IncompleteData, "Incomplete form data", errs), nil)
		return
	}

	result, err := s.generate(r.Context(), id, profile, session.SourceWizard)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeData(w, models.NewGenerateResponse(profile, result, workoutPath))
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Load(r.Context(), sessionIDFromContext(r))
	if err != nil {
		s.log.Error("loading session", "error", err)
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to load session", err), nil)
		return
	}
	if d.Result == nil {
		writeError(w, apierr.New(apierr.NoWorkout, "No workout has been generated yet"), nil)
		return
	}
	var profile models.UserProfile
	if d.UserPreferences != nil {
		profile = *d.UserPreferences
	}
	writeData(w, models.NewGenerateResponse(profile, d.Result, ""))
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	cat := s.gen.Catalog()
	param := strings.TrimSpace(r.URL.Query().Get("equipment"))
	if param == "" {
		writeData(w, cat.All())
		return
	}
	var equipment []models.Equipment
	for _, name := range strings.Split(param, ",") {
		name = strings.TrimSpace(name)
		if !models.ValidEquipment(name) {
			writeError(w, apierr.New(apierr.InvalidInput, "Unknown equipment: "+name), nil)
			return
		}
		equipment = append(equipment, models.Equipment(name))
	}
	exercises := cat.ForEquipment(equipment)
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	writeData(w, exercises)
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, apierr.New(apierr.InvalidInput, "limit must be a positive integer"), nil)
			return
		}
		limit = min(n, 100)
	}
	if s.logs == nil {
		writeData(w, []session.GenerationLog{})
		return
	}
	logs, err := s.logs.QueryGenerationLogs(r.Context(), sessionIDFromContext(r), limit)
	if err != nil {
		s.log.Error("querying generation logs", "error", err)
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to load generation history", err), nil)
		return
	}
	if logs == nil {
		logs = []session.GenerationLog{}
	}
	writeData(w, logs)
}

// generate runs the engine for profile and stores the profile and result
// in the session. Nothing is stored when the engine fails.
func (s *Server) generate(ctx context.Context, sessionID string, profile models.UserProfile, source string) (*models.GenerationResult, error) {
	start := time.Now()
	result, err := s.gen.Generate(profile)
	if err == nil {
		err = s.store.Update(ctx, sessionID, func(d *session.Data) error {
			p := profile
			d.UserPreferences = &p
			d.Result = result
			return nil
		})
	}
	s.recordGeneration(ctx, sessionID, source, profile, result, time.Since(start), err)
	if err != nil {
		s.log.Error("generating workout", "session", sessionID, "error", err)
		return nil, apierr.Wrap(apierr.GenerationError, "Failed to generate workout", err)
	}
	s.log.Info("workout generated",
		"session", sessionID,
		"source", source,
		"goal", profile.Goal,
		"days", profile.DaysPerWeek,
	)
	return result, nil
}

func (s *Server) recordGeneration(ctx context.Context, sessionID, source string, p models.UserProfile, result *models.GenerationResult, elapsed time.Duration, genErr error) {
	if s.logs == nil {
		return
	}
	entry := session.NewGenerationLog(sessionID, source, p, result, elapsed, genErr)
	if err := s.logs.InsertGenerationLog(ctx, entry); err != nil {
		s.log.Warn("recording generation", "error", err)
	}
}
