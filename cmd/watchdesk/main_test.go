package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/watchdesk/internal/api"
	"github.com/erazemk/watchdesk/internal/auth"
	"github.com/erazemk/watchdesk/internal/config"
	"github.com/erazemk/watchdesk/internal/db"
	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/report"
	"github.com/erazemk/watchdesk/internal/store"
)

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("length = %d, want 16", len(a))
	}
	if err := model.ValidatePassword(a); err != nil {
		t.Errorf("generated password rejected: %v", err)
	}
	b, _ := generatePassword(16)
	if a == b {
		t.Error("two generated passwords are equal")
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)

	if err := ensureAdmin(ctx, database, "Owner"); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}
	user, err := store.GetUserByUsername(ctx, database, "Owner")
	if err != nil || user == nil {
		t.Fatalf("admin not created: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if cost, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil || cost != bcrypt.DefaultCost {
		t.Errorf("hash cost = %d (%v), want %d", cost, err, bcrypt.DefaultCost)
	}

	// A second run leaves the existing users alone.
	if err := ensureAdmin(ctx, database, "Other"); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}
	if n, _ := store.CountUsers(ctx, database); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestNewLimiterDefaultsToMemory(t *testing.T) {
	cfg := config.Config{LoginAttemptsPerMinute: 3}
	limiter, closeLimiter, err := newLimiter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newLimiter: %v", err)
	}
	defer closeLimiter()

	if _, ok := limiter.(*auth.MemoryLimiter); !ok {
		t.Errorf("limiter is %T, want *auth.MemoryLimiter", limiter)
	}
}

func TestUsageMentionsEnvironment(t *testing.T) {
	for _, key := range []string{"WATCHDESK_DB", "REDIS_ADDR", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		if !strings.Contains(usage, key) {
			t.Errorf("usage does not mention %s", key)
		}
	}
}

// loginCodes sends failed logins from one peer, each with a different
// X-Forwarded-For value, and returns the status codes.
func loginCodes(t *testing.T, trustProxy bool, attempts int) []int {
	t.Helper()
	ctx := context.Background()
	database := db.NewTestDB(t)
	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	apiRouter := api.NewRouter(database, secret, report.NewService(store.Records{DB: database}), auth.NewMemoryLimiter(1))
	handler := newHandler(apiRouter, http.NotFoundHandler(), trustProxy)

	codes := make([]int, 0, attempts)
	for i := range attempts {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"nobody","password":"wrong-password"}`))
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	return codes
}

func TestLoginThrottleIgnoresForwardedForByDefault(t *testing.T) {
	codes := loginCodes(t, false, 5)
	if codes[0] != http.StatusUnauthorized {
		t.Errorf("first attempt = %d, want 401", codes[0])
	}
	for i, code := range codes[1:] {
		if code != http.StatusTooManyRequests {
			t.Errorf("attempt %d = %d, want 429 (codes %v)", i+2, code, codes)
		}
	}
}

func TestLoginThrottleBehindTrustedProxy(t *testing.T) {
	// Each forwarded address is a distinct client once the proxy is trusted.
	for i, code := range loginCodes(t, true, 3) {
		if code != http.StatusUnauthorized {
			t.Errorf("attempt %d = %d, want 401", i+1, code)
		}
	}
}
