package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/claude/forgeplan/internal/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData sends a success envelope around data.
func writeData(w http.ResponseWriter, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to encode response", err), nil)
		return
	}
	writeJSON(w, http.StatusOK, apierr.Envelope{Success: true, Data: raw, Timestamp: time.Now().Unix()})
}

// writeError sends a failure envelope. Errors that are not *apierr.Error
// are reported as GENERATION_ERROR. data, if non-nil, is included.
func writeError(w http.ResponseWriter, err error, data any) {
	var e *apierr.Error
	if !errors.As(err, &e) {
		e = apierr.Wrap(apierr.GenerationError, err.Error(), err)
	}
	env := apierr.Envelope{Success: false, Error: e, Timestamp: time.Now().Unix()}
	if data != nil {
		if raw, mErr := json.Marshal(data); mErr == nil {
			env.Data = raw
		}
	}
	status := e.Status
	if status == 0 {
		status = e.Code.Status()
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, env)
}

// wantsJSON reports whether the caller is a script rather than a browser
// form post.
func wantsJSON(r *http.Request) bool {
	if isJSONBody(r) {
		return true
	}
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
