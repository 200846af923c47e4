package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/bump-journal/internal/handler"
	"github.com/msomdec/bump-journal/internal/progress"
	"github.com/msomdec/bump-journal/internal/repository/sqlite"
	"github.com/msomdec/bump-journal/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	db         *sqlite.DB
	auth       *service.AuthService
	milestones *service.MilestoneService
	tips       *service.TipService
	progress   *service.ProgressService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		db:         db,
		auth:       service.NewAuthService(db.Users(), testJWTSecret, 4, time.Hour),
		milestones: service.NewMilestoneService(db.Milestones(), db.Tips()),
		tips:       service.NewTipService(db.Tips(), db.Milestones()),
		progress:   service.NewProgressService(db.Users(), db.Milestones(), progress.Options{}),
	}
}

func (e *testEnv) register(t *testing.T, email, name string) string {
	t.Helper()
	_, token, err := e.auth.Register(context.Background(), email, "password123", name)
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return token
}

func principalName(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := handler.PrincipalFromContext(r.Context()); p != nil {
			*got = p.Name
		}
		w.WriteHeader(http.StatusOK)
	})
}

func mustNotRun(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})
}

func TestRequireAuth_BearerToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "valid@example.com", "Valid User")

	var got string
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth)(principalName(&got)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != "Valid User" {
		t.Fatalf("expected principal 'Valid User', got %q", got)
	}
}

func TestRequireAuth_Cookie(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "cookie@example.com", "Cookie User")

	var got string
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth)(principalName(&got)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != "Cookie User" {
		t.Fatalf("expected principal 'Cookie User', got %q", got)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "tamper@example.com", "Tamper")
	mid := len(token) - 10
	flipped := byte('A')
	if token[mid] == 'A' {
		flipped = 'B'
	}
	tampered := token[:mid] + string(flipped) + token[mid+1:]

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer invalid.jwt.token"},
		{"tampered", "Bearer " + tampered},
		{"wrong scheme", "Basic " + token},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.RequireAuth(env.auth)(mustNotRun(t)).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "optional@example.com", "Optional")

	var got string
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.OptionalAuth(env.auth)(principalName(&got)).ServeHTTP(w, req)
	if w.Code != http.StatusOK || got != "Optional" {
		t.Fatalf("with token: expected 200 and principal, got %d %q", w.Code, got)
	}

	got = ""
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	handler.OptionalAuth(env.auth)(principalName(&got)).ServeHTTP(w, req)
	if w.Code != http.StatusOK || got != "" {
		t.Fatalf("bad token: expected anonymous 200, got %d %q", w.Code, got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.RequestID(inner).ServeHTTP(w, req)

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected generated uuid, got %q", seen)
	}
	if w.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected response header to echo %q, got %q", seen, w.Header().Get("X-Request-ID"))
	}

	incoming := uuid.New().String()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	handler.RequestID(inner).ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Fatalf("expected incoming id %q to be kept, got %q", incoming, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	handler.RequestID(inner).ServeHTTP(httptest.NewRecorder(), req)
	if seen == "<script>" {
		t.Fatal("expected malformed incoming id to be replaced")
	}
}

func TestRateLimit(t *testing.T) {
	limiter := service.NewTokenBucket(1, 2)
	h := handler.RateLimit(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	for i := range 2 {
		if w := send("10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := send("10.0.0.1:5678")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the bucket is empty, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	if w := send("10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	handler.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}
