package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func sessionEcho(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = sessionIDFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

// TestSessionCookieIssuesNewSession verifies a request without a cookie
// gets a fresh UUID session and a signed cookie.
func TestSessionCookieIssuesNewSession(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	var id string
	rec := httptest.NewRecorder()
	s.SessionCookie(sessionEcho(&id)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session id %q is not a UUID", id)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	claims, err := s.cookies.parse(cookies[0].Value)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ID != id {
		t.Errorf("jti = %q, want %q", claims.ID, id)
	}
}

// TestSessionCookieReused verifies a valid fresh cookie keeps its session
// and is not reissued.
func TestSessionCookieReused(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	want := uuid.NewString()
	token, _, err := s.cookies.issue(want)
	if err != nil {
		t.Fatal(err)
	}

	var id string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	s.SessionCookie(sessionEcho(&id)).ServeHTTP(rec, req)

	if id != want {
		t.Errorf("session = %q, want %q", id, want)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("fresh cookie was reissued")
	}
}

// TestSessionCookieRejectsBadTokens verifies tampered, foreign and
// expired cookies start a new session.
func TestSessionCookieRejectsBadTokens(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{SessionTTL: time.Hour})
	id := uuid.NewString()

	good, _, _ := s.cookies.issue(id)
	foreign, _, _ := cookieCodec{secret: []byte("other"), ttl: time.Hour, now: time.Now}.issue(id)
	expired, _, _ := cookieCodec{secret: testSecret, ttl: time.Hour, now: func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}}.issue(id)
	notUUID, _, _ := s.cookies.issue("session-1")

	for name, token := range map[string]string{
		"tampered": good + "x",
		"foreign":  foreign,
		"expired":  expired,
		"not uuid": notUUID,
		"garbage":  "abc",
	} {
		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		s.SessionCookie(sessionEcho(&got)).ServeHTTP(rec, req)

		if got == id || got == "" {
			t.Errorf("%s: session = %q", name, got)
		}
		if len(rec.Result().Cookies()) != 1 {
			t.Errorf("%s: no replacement cookie", name)
		}
	}
}

// TestSessionCookieRefreshedWhenStale verifies a cookie past half its
// lifetime is reissued for the same session.
func TestSessionCookieRefreshedWhenStale(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{SessionTTL: time.Hour})
	id := uuid.NewString()
	old, _, err := cookieCodec{secret: testSecret, ttl: time.Hour, now: func() time.Time {
		return time.Now().Add(-40 * time.Minute)
	}}.issue(id)
	if err != nil {
		t.Fatal(err)
	}

	var got string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: old})
	rec := httptest.NewRecorder()
	s.SessionCookie(sessionEcho(&got)).ServeHTTP(rec, req)

	if got != id {
		t.Errorf("session = %q, want %q", got, id)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Error("stale cookie not refreshed")
	}
}

func TestLimiterSet(t *testing.T) {
	l := newLimiterSet(rate.Every(time.Minute), 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.allow("a") || !l.allow("a") {
		t.Fatal("burst not honoured")
	}
	if l.allow("a") {
		t.Error("third call within burst window allowed")
	}
	if !l.allow("b") {
		t.Error("sessions share a bucket")
	}
	now = now.Add(time.Minute)
	if !l.allow("a") {
		t.Error("token not refilled after a minute")
	}

	now = now.Add(time.Hour)
	l.allow("c")
	if n := l.prune(30 * time.Minute); n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
}

func TestLimiterSetUnlimited(t *testing.T) {
	l := newLimiterSet(0, 0)
	for i := 0; i < 1000; i++ {
		if !l.allow("a") {
			t.Fatal("unlimited set refused a request")
		}
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	log := slog.Default()
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
