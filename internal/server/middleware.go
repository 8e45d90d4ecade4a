package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/session"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// sessionIDFromContext returns the session ID set by SessionCookie.
func sessionIDFromContext(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}

// SessionCookie resolves the caller's session from the signed cookie. A
// missing, invalid or expired cookie starts a new session. Cookies past
// half their lifetime are reissued for the same session.
func (s *Server) SessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		reissue := true
		if c, err := r.Cookie(sessionCookieName); err == nil {
			claims, err := s.cookies.parse(c.Value)
			if err == nil {
				id = claims.ID
				reissue = s.cookies.stale(claims)
			} else {
				s.log.Debug("discarding session cookie", "error", err)
			}
		}
		if id == "" {
			id = session.NewID()
		}
		if reissue {
			token, expires, err := s.cookies.issue(id)
			if err != nil {
				s.log.Error("signing session cookie", "error", err)
				writeError(w, apierr.Wrap(apierr.GenerationError, "Failed to start session", err), nil)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				Expires:  expires,
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimit rejects requests from a session that exceeded its generation
// budget with 429 RATE_LIMITED.
func (s *Server) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.allow(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allow(w http.ResponseWriter, r *http.Request) bool {
	if s.limiters.allow(sessionIDFromContext(r)) {
		return true
	}
	w.Header().Set("Retry-After", "1")
	writeError(w, apierr.New(apierr.RateLimited, "Too many generation requests"), nil)
	return false
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
