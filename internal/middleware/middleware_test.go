package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/store/memory"
)

var testJWT = &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour, Issuer: "travelpack"}

func seedUser(t *testing.T, s *memory.Store, role string) models.User {
	t.Helper()
	u := models.User{Name: "Test", Email: role + "@example.com", Role: role}
	if err := s.CreateUser(context.Background(), &u); err != nil {
		t.Fatal(err)
	}
	return u
}

func bearer(t *testing.T, u models.User, role string) string {
	t.Helper()
	tok, err := GenerateToken(u.ID, role, testJWT)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	w.Write([]byte(actor.Role))
}

func TestRequire(t *testing.T) {
	s := memory.New()
	user := seedUser(t, s, models.RoleUser)
	auth := NewAuth(testJWT, s)

	ghost := models.User{Name: "Ghost"}
	ghost.ID = user.ID
	ghost.ID[0] ^= 0xff

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusUnauthorized, "Not authorized to access this route"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Not authorized"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "Not authorized"},
		{"deleted user", bearer(t, ghost, models.RoleUser), http.StatusUnauthorized, "Not authorized"},
		{"valid", bearer(t, user, models.RoleUser), http.StatusOK, "user"},
		{"lowercase scheme", strings.Replace(bearer(t, user, models.RoleUser), "Bearer", "bearer", 1), http.StatusOK, "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Require(okHandler)(rec, req)
			if rec.Code != tt.wantStatus || !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("got %d %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRequireAdminUsesStoredRole(t *testing.T) {
	s := memory.New()
	user := seedUser(t, s, models.RoleUser)
	admin := seedUser(t, s, models.RoleAdmin)
	auth := NewAuth(testJWT, s)

	// a token claiming admin for a plain user must not grant admin access
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", bearer(t, user, models.RoleAdmin))
	rec := httptest.NewRecorder()
	auth.RequireAdmin(okHandler)(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", bearer(t, admin, models.RoleAdmin))
	rec = httptest.NewRecorder()
	auth.RequireAdmin(okHandler)(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "admin" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	tok, err := GenerateToken(seedUser(t, memory.New(), models.RoleUser).ID, models.RoleUser, testJWT)
	if err != nil {
		t.Fatal(err)
	}
	other := &config.JWTConfig{Secret: "other"}
	if _, err := ValidateToken(tok, other); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestOAuthState(t *testing.T) {
	state, err := GenerateOAuthState("https://app.example.com/done", testJWT)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ValidateOAuthState(state, testJWT)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Redirect != "https://app.example.com/done" {
		t.Fatalf("redirect = %q", claims.Redirect)
	}

	// access tokens are not valid states
	access, _ := GenerateToken(seedUser(t, memory.New(), models.RoleUser).ID, models.RoleUser, testJWT)
	if _, err := ValidateOAuthState(access, testJWT); err == nil {
		t.Fatal("access token accepted as oauth state")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}, logger.Discard())
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second client status = %d", rec.Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false}, logger.Discard())
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	h := RequestLogger(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.7"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name, remote, xff string
		trusted           bool
		want              string
	}{
		{"no proxy", "192.0.2.1:1234", "", true, "192.0.2.1"},
		{"untrusted peer ignores header", "192.0.2.1:1234", "203.0.113.9", true, "192.0.2.1"},
		{"no trusted list ignores header", "10.0.0.1:1234", "203.0.113.9", false, "10.0.0.1"},
		{"trusted peer", "10.0.0.1:1234", "203.0.113.9", true, "203.0.113.9"},
		{"spoofed leftmost hop", "192.0.2.7:1234", "1.2.3.4, 203.0.113.9, 10.1.1.1", true, "203.0.113.9"},
		{"all hops trusted", "10.0.0.1:1234", "10.2.2.2", true, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			list := trusted
			if !tt.trusted {
				list = nil
			}
			if got := ClientIP(req, list); got != tt.want {
				t.Fatalf("ClientIP = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	if _, err := ParseTrustedProxies([]string{"not-an-ip"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRateLimiterIgnoresRotatedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}, logger.Discard())
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.4:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code == http.StatusNoContent {
			allowed++
		}
	}
	if allowed != 1 {
		t.Fatalf("allowed = %d, want 1", allowed)
	}
	if n := len(rl.clients); n != 1 {
		t.Fatalf("tracked clients = %d, want 1", n)
	}
}
