package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/scribe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development env by default")
	}
	if cfg.AIServiceURL != "http://localhost:8002" {
		t.Errorf("unexpected AI service URL: %s", cfg.AIServiceURL)
	}
	if cfg.DefaultClinicianID != "dr-house" {
		t.Errorf("unexpected default clinician: %s", cfg.DefaultClinicianID)
	}
	if cfg.AITimeout() != 120*time.Second {
		t.Errorf("unexpected AI timeout: %s", cfg.AITimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/scribe")
	t.Setenv("PORT", "9000")
	t.Setenv("AI_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.AITimeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.AITimeout())
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{AIServiceURL: "", DefaultClinicianID: "dr-house"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty AI_SERVICE_URL")
	}
	cfg = &Config{AIServiceURL: "http://ai:8002", DefaultClinicianID: ""}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty DEFAULT_CLINICIAN_ID")
	}
}
