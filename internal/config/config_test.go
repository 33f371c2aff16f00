package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want :3000", cfg.ServerAddr)
	}
	if cfg.WebhookSource != "web-app" {
		t.Errorf("WebhookSource = %q, want web-app", cfg.WebhookSource)
	}
	if cfg.FailClosed() {
		t.Error("default failure mode should be fail-open")
	}
	if !cfg.IsDemoMode() {
		t.Error("no webhook configured should be demo mode")
	}
	if cfg.ExecutionFloor != 8*time.Second {
		t.Errorf("ExecutionFloor = %v, want 8s", cfg.ExecutionFloor)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
webhook_url: https://hooks.example.com/webhook/abc
webhook_source: yaml-source
webhook_failure_mode: closed
metrics_mode: deterministic
processing_delay: 2s
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("WEBHOOK_SOURCE", "env-source")
	t.Setenv("EXECUTION_FLOOR", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WebhookURL != "https://hooks.example.com/webhook/abc" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.WebhookSource != "env-source" {
		t.Errorf("WebhookSource = %q, want env override", cfg.WebhookSource)
	}
	if !cfg.FailClosed() {
		t.Error("expected fail-closed from yaml")
	}
	if cfg.MetricsMode != MetricsDeterministic {
		t.Errorf("MetricsMode = %q", cfg.MetricsMode)
	}
	if cfg.ProcessingDelay != 2*time.Second {
		t.Errorf("ProcessingDelay = %v, want 2s", cfg.ProcessingDelay)
	}
	if cfg.ExecutionFloor != 3*time.Second {
		t.Errorf("ExecutionFloor = %v, want 3s", cfg.ExecutionFloor)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfigFile(t, "webhook_url: [unterminated"))

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PROCESSING_DELAY", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"fail closed with url", func(c *Config) {
			c.WebhookURL = "https://hooks.example.com/x"
			c.WebhookFailureMode = FailClosed
		}, ""},
		{"fail closed without url", func(c *Config) { c.WebhookFailureMode = FailClosed }, "requires WEBHOOK_URL"},
		{"unknown failure mode", func(c *Config) { c.WebhookFailureMode = "sometimes" }, "webhook failure mode"},
		{"unknown metrics mode", func(c *Config) { c.MetricsMode = "magic" }, "metrics mode"},
		{"bad webhook url", func(c *Config) { c.WebhookURL = "ftp://example.com" }, "webhook url"},
		{"empty source", func(c *Config) { c.WebhookSource = "" }, "source"},
		{"negative delay", func(c *Config) { c.ProcessingDelay = -time.Second }, "processing delay"},
		{"tls without cert", func(c *Config) { c.TLSEnabled = true }, "TLS requires"},
		{"cors origin list", func(c *Config) { c.CORSOrigins = "https://a.example.com, http://localhost:3000" }, ""},
		{"cors origin without scheme", func(c *Config) { c.CORSOrigins = "example.com" }, "cors origin"},
		{"cors origin with path", func(c *Config) { c.CORSOrigins = "https://example.com/app" }, "cors origin"},
		{"bad base url as origin", func(c *Config) { c.BaseURL = "localhost:3000" }, "cors origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Default()
	if got := cfg.AllowedOrigins(); len(got) != 1 || got[0] != cfg.BaseURL {
		t.Errorf("AllowedOrigins() = %v, want base URL", got)
	}

	cfg.CORSOrigins = " https://a.example.com ,,http://b.example.com"
	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "http://b.example.com" {
		t.Errorf("AllowedOrigins() = %q", got)
	}
}
