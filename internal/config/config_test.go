package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.GroqBaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("GroqBaseURL = %q, want groq default", cfg.GroqBaseURL)
	}
	if cfg.GroqModel != "llama3-8b-8192" {
		t.Fatalf("GroqModel = %q, want default model", cfg.GroqModel)
	}
	if cfg.HistoryWindow != 5 {
		t.Fatalf("HistoryWindow = %d, want 5", cfg.HistoryWindow)
	}
	if cfg.ModelTimeout != 30*time.Second {
		t.Fatalf("ModelTimeout = %v, want 30s", cfg.ModelTimeout)
	}
	if cfg.MailEnabled() {
		t.Fatalf("MailEnabled() = true with no SMTP settings")
	}
}

func TestLoadOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("HISTORY_WINDOW", "3")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "bot@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.HistoryWindow != 3 {
		t.Fatalf("HistoryWindow = %d, want 3", cfg.HistoryWindow)
	}
	if cfg.ModelTimeout != 5*time.Second {
		t.Fatalf("ModelTimeout = %v, want 5s", cfg.ModelTimeout)
	}
	if !cfg.MailEnabled() {
		t.Fatalf("MailEnabled() = false with SMTP settings present")
	}
}

func TestLoadRejectsInvalidWindow(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("HISTORY_WINDOW", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() accepted HISTORY_WINDOW=0")
	}
}

func TestLoadRejectsMalformedTimeout(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("MODEL_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() accepted malformed MODEL_TIMEOUT")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"GROQ_API_KEY",
		"GROQ_BASE_URL",
		"GROQ_MODEL",
		"MODEL_TIMEOUT",
		"HISTORY_WINDOW",
		"SESSION_IDLE_TIMEOUT",
		"DATABASE_URL",
		"SMTP_HOST",
		"SMTP_PORT",
		"SMTP_USER",
		"SMTP_PASS",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
