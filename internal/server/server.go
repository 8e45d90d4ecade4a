package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/forgeplan/internal/engine"
	"github.com/claude/forgeplan/internal/session"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Options configures sessions and rate limiting.
type Options struct {
	// Secret signs session cookies.
	Secret []byte
	// SessionTTL is the cookie lifetime. Zero means 24h.
	SessionTTL time.Duration
	// GenerateRate is the sustained generations per second allowed per
	// session. Zero or less disables the limit.
	GenerateRate rate.Limit
	// GenerateBurst is the number of generations allowed at once.
	GenerateBurst int
	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    session.Store
	logs     session.LogStore
	gen      *engine.Generator
	cookies  cookieCodec
	limiters *limiterSet
	secure   bool
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured. logs may be nil,
// in which case generation history is not recorded.
func New(store session.Store, logs session.LogStore, gen *engine.Generator, opts Options, log *slog.Logger) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	s := &Server{
		store:    store,
		logs:     logs,
		gen:      gen,
		cookies:  cookieCodec{secret: opts.Secret, ttl: opts.SessionTTL, now: time.Now},
		limiters: newLimiterSet(opts.GenerateRate, opts.GenerateBurst),
		secure:   opts.SecureCookie,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// PruneLimiters drops rate limiters of sessions idle for longer than idle.
func (s *Server) PruneLimiters(idle time.Duration) int {
	return s.limiters.prune(idle)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.SessionCookie)

		r.Post("/api/v1/steps/validate", s.handleValidateStep)
		r.Post("/api/v1/steps", s.handleSaveStep)
		r.Get("/api/v1/session", s.handleSession)
		r.Post("/api/v1/session/clear", s.handleClearSession)
		r.Get("/api/v1/workout", s.handleWorkout)
		r.Get("/api/v1/exercises", s.handleExercises)
		r.Get("/api/v1/generations", s.handleGenerations)

		// Action-style routing used by older front ends.
		r.HandleFunc("/api/endpoints", s.handleAction)

		r.Group(func(r chi.Router) {
			r.Use(s.RateLimit)
			r.Post("/api/v1/workouts/generate", s.handleGenerate)
			r.Post("/generate", s.handleLegacyGenerate)
		})
		r.Get("/generate", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
		})
	})
}
