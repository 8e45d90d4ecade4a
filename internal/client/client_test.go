package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/models"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any, e *apierr.Error) {
	t.Helper()
	env := apierr.Envelope{Success: e == nil, Error: e, Timestamp: time.Now().Unix()}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		env.Data = raw
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c := New(ts.URL, nil)
	c.SetBackoff(func(int) time.Duration { return time.Millisecond })
	return c
}

// TestValidateStepMapsValidationFailure checks a 422 becomes an invalid
// result rather than an error.
func TestValidateStepMapsValidationFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/steps/validate", r.URL.Path)
		var req models.StepRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.Step)
		writeEnvelope(t, w, http.StatusUnprocessableEntity, nil,
			apierr.WithFields(apierr.ValidationFailed, "Validation failed", map[string]string{"name": "Name must be at least 2 characters long"}))
	})

	res, err := c.ValidateStep(context.Background(), 1, map[string]any{"name": "A"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Name must be at least 2 characters long", res.Errors["name"])
}

func TestValidateAndSaveSkipsSaveWhenInvalid(t *testing.T) {
	var saves atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/steps":
			saves.Add(1)
			writeEnvelope(t, w, http.StatusOK, models.StepSaved{Saved: true, Step: 2}, nil)
		default:
			writeEnvelope(t, w, http.StatusUnprocessableEntity, nil,
				apierr.WithFields(apierr.ValidationFailed, "Validation failed", map[string]string{"primary_goal": "Please select a valid primary goal"}))
		}
	})

	res, err := c.ValidateAndSave(context.Background(), 2, map[string]any{})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Zero(t, saves.Load())
}

// TestRetriesGatewayErrors checks 503 responses are retried and the third
// attempt's success is returned.
func TestRetriesGatewayErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{}, nil)
	})

	require.NoError(t, c.ClearSession(context.Background()))
	assert.EqualValues(t, 3, calls.Load())
}

func TestGivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Session(context.Background())
	require.Error(t, err)
	code, ok := apierr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apierr.NetworkError, code)
	assert.EqualValues(t, maxAttempts, calls.Load())
}

// TestAPIErrorsAreNotRetried checks coded failures come back once, with
// their HTTP status.
func TestAPIErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(t, w, http.StatusBadRequest, nil, apierr.New(apierr.NoFormData, "No form data found in session"))
	})

	_, err := c.Generate(context.Background())
	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierr.NoFormData, apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.EqualValues(t, 1, calls.Load())
}

func TestBackoffRespectsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})
	c.SetBackoff(func(int) time.Duration { return time.Hour })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := c.ClearSession(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	code, _ := apierr.CodeOf(err)
	assert.Equal(t, apierr.NetworkError, code)
}

// TestSessionCookieIsKept checks the cookie set by the first response is
// sent on later requests.
func TestSessionCookieIsKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("forgeplan_session"); err != nil {
			http.SetCookie(w, &http.Cookie{Name: "forgeplan_session", Value: "abc", Path: "/"})
			writeEnvelope(t, w, http.StatusOK, models.SessionView{}, nil)
			return
		}
		writeEnvelope(t, w, http.StatusOK, models.SessionView{SessionID: "abc"}, nil)
	})

	ctx := context.Background()
	first, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Empty(t, first.SessionID)
	second, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", second.SessionID)
}

func TestExercisesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bodyweight,dumbbells", r.URL.Query().Get("equipment"))
		writeEnvelope(t, w, http.StatusOK, []models.Exercise{{Name: "Push-ups", Equipment: models.EquipBodyweight}}, nil)
	})

	out, err := c.Exercises(context.Background(), []models.Equipment{models.EquipBodyweight, models.EquipDumbbells})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Push-ups", out[0].Name)
}

// TestSubmitSavesStepsThenGenerates checks the wizard submitter saves
// every step in order before generating.
func TestSubmitSavesStepsThenGenerates(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/api/v1/steps":
			var req models.StepRequest
			require.NoError(t, json.Unmarshal(body, &req))
			paths = append(paths, r.URL.Path)
			writeEnvelope(t, w, http.StatusOK, models.StepSaved{Saved: true, Step: req.Step}, nil)
		case "/api/v1/workouts/generate":
			paths = append(paths, r.URL.Path)
			writeEnvelope(t, w, http.StatusOK, models.GenerateResponse{
				WorkoutPlan: models.WorkoutPlan{{Label: "Day 1", Exercises: []string{"Push-ups"}}},
				Intensity:   models.Intensity{Sets: 3, Reps: "8-12"},
			}, nil)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	form := models.FormData{
		Personal:    &models.PersonalInfo{Name: "Ana", Age: 30, Gender: models.GenderFemale},
		Preferences: &models.Preferences{DaysPerWeek: 1, WorkoutDuration: 30},
	}
	res, err := c.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/v1/steps", "/api/v1/steps", "/api/v1/workouts/generate"}, paths)
	assert.Equal(t, "8-12", res.Intensity.Reps)
	assert.Equal(t, []string{"Day 1"}, res.Plan.Labels())
}

func TestResumeFlattensSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, models.SessionView{FormData: models.FormData{
			Personal:    &models.PersonalInfo{Name: "Ana", Age: 30, Gender: models.GenderFemale},
			CurrentStep: 2,
		}}, nil)
	})

	fields, step, err := c.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, step)
	assert.Equal(t, "Ana", fields["name"])

	p, err := c.FormProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StepID{models.StepPersonalInfo}, p.CompletedSteps)
	assert.False(t, p.Complete())
	assert.False(t, p.Generated)
}
