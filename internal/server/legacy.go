package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/normalize"
	"github.com/claude/forgeplan/internal/session"
)

// handleAction routes ?action=<name> requests to the matching handler.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" && r.Method == http.MethodPost {
		action = r.PostFormValue("action")
	}

	switch action {
	case "validate_step":
		s.handleValidateStep(w, r)
	case "save_step_data":
		s.handleSaveStep(w, r)
	case "get_session_data":
		s.handleSession(w, r)
	case "generate_workout":
		if s.allow(w, r) {
			s.handleGenerate(w, r)
		}
	case "clear_session":
		s.handleClearSession(w, r)
	default:
		writeError(w, apierr.New(apierr.InvalidAction, "Invalid or missing action parameter"), nil)
	}
}

// handleLegacyGenerate accepts the single-page form, either url-encoded or
// as JSON, and generates in one shot. Browser posts are redirected to the
// stored workout; scripted callers get the plan directly.
func (s *Server) handleLegacyGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	scripted := wantsJSON(r)

	var body map[string]any
	if isJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, apierr.Wrap(apierr.InvalidInput, "Invalid JSON input", err), nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, apierr.Wrap(apierr.InvalidInput, "Invalid form input", err), nil)
			return
		}
		body = normalize.FormBody(r.PostForm)
	}

	profile := normalize.Legacy(body)
	if errs := normalize.Check(profile); len(errs) > 0 {
		if !scripted {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		writeError(w, apierr.WithFields(apierr.IncompleteData, "Incomplete form data", errs), nil)
		return
	}

	result, err := s.generate(r.Context(), sessionIDFromContext(r), profile, session.SourceLegacy)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if !scripted {
		http.Redirect(w, r, workoutPath, http.StatusSeeOther)
		return
	}
	writeData(w, models.NewGenerateResponse(profile, result, workoutPath))
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
