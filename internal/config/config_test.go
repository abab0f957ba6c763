package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret-32-characters-long!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.SessionTimeout != 30*time.Minute {
		t.Errorf("SessionTimeout: got %v, want %v", cfg.Auth.SessionTimeout, 30*time.Minute)
	}
	if cfg.Auth.LockoutWindow != 5*time.Minute {
		t.Errorf("LockoutWindow: got %v, want %v", cfg.Auth.LockoutWindow, 5*time.Minute)
	}
	if cfg.Auth.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts: got %d, want 5", cfg.Auth.MaxFailedAttempts)
	}
	if cfg.Auth.SecretGenerated {
		t.Error("SecretGenerated: got true, want false when SECRET_KEY is set")
	}

	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"AuthPerWindow", cfg.Limits.AuthPerWindow, 20},
		{"APIPerWindow", cfg.Limits.APIPerWindow, 100},
		{"AlertsPerWindow", cfg.Limits.AlertsPerWindow, 50},
	}
	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %d, want %d", tt.name, tt.actual, tt.expected)
		}
	}
	if cfg.Limits.Window != time.Hour {
		t.Errorf("Window: got %v, want %v", cfg.Limits.Window, time.Hour)
	}
}

func TestLoad_GeneratesEphemeralSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if !cfg.Auth.SecretGenerated {
		t.Error("SecretGenerated: got false, want true when SECRET_KEY is absent")
	}
	if len(cfg.Auth.SecretKey) < 32 {
		t.Errorf("generated secret too short: %d chars", len(cfg.Auth.SecretKey))
	}
}

func TestLoad_SessionTimeoutOverride(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret-32-characters-long!!")
	t.Setenv("SESSION_TIMEOUT_MINUTES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.SessionTimeout != 5*time.Minute {
		t.Errorf("SessionTimeout: got %v, want %v", cfg.Auth.SessionTimeout, 5*time.Minute)
	}
}

func TestLoad_RejectsShortSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SECRET_KEY", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for short secret in production")
	}
}

func TestLoad_RejectsWeakSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "changeme")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for weak secret")
	}
}

func TestLoad_SESRequiresFromAddress(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret-32-characters-long!!")
	t.Setenv("NOTIFY_CHANNEL", "ses")
	t.Setenv("NOTIFY_FROM_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error when SES channel has no from address")
	}
}
