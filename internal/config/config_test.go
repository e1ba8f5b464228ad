package config

import (
	"os"
	"path/filepath"
	"testing"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.DB != DefaultDB || cfg.Addr != DefaultAddr || cfg.AdminUser != DefaultAdminUser {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.LoginAttemptsPerMinute != 5 {
		t.Errorf("expected 5 login attempts per minute, got %d", cfg.LoginAttemptsPerMinute)
	}
	if cfg.TrustProxy {
		t.Error("expected proxy headers to be ignored by default")
	}
	if cfg.RedisAddr != "" || cfg.OTLPEndpoint != "" {
		t.Errorf("expected optional services off, got %+v", cfg)
	}
}

func TestFromEnvValues(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"WATCHDESK_DB":                "postgres://localhost/watchdesk",
		"WATCHDESK_ADDR":              ":9090",
		"REDIS_ADDR":                  "localhost:6379",
		"REDIS_DB":                    "2",
		"LOGIN_ATTEMPTS_PER_MINUTE":   "10",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4318",
		"WATCHDESK_TRUST_PROXY":       "true",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.DB != "postgres://localhost/watchdesk" || cfg.Addr != ":9090" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.RedisDB != 2 || cfg.LoginAttemptsPerMinute != 10 {
		t.Errorf("unexpected numbers %+v", cfg)
	}
	if cfg.OTLPEndpoint != "localhost:4318" {
		t.Errorf("expected OTLP endpoint, got %q", cfg.OTLPEndpoint)
	}
	if !cfg.TrustProxy {
		t.Error("expected WATCHDESK_TRUST_PROXY to be honoured")
	}
}

func TestFromEnvInvalid(t *testing.T) {
	for _, m := range []map[string]string{
		{"REDIS_DB": "one"},
		{"LOGIN_ATTEMPTS_PER_MINUTE": "0"},
		{"LOGIN_ATTEMPTS_PER_MINUTE": "many"},
		{"WATCHDESK_TRUST_PROXY": "sometimes"},
	} {
		if _, err := FromEnv(env(m)); err == nil {
			t.Errorf("FromEnv(%v): expected error", m)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("WATCHDESK_ADMIN=Owner\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WATCHDESK_ADMIN", "")
	os.Unsetenv("WATCHDESK_ADMIN")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AdminUser != "Owner" {
		t.Errorf("expected admin from .env, got %q", cfg.AdminUser)
	}
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("WATCHDESK_ADDR=:1111\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WATCHDESK_ADDR", ":2222")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":2222" {
		t.Errorf("expected environment to win, got %q", cfg.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}
