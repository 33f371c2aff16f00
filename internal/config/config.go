package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"outreach/internal/validation"
)

// Webhook failure modes.
const (
	FailOpen   = "open"   // log the webhook failure and report demo metrics
	FailClosed = "closed" // fail the trigger request
)

// Metrics modes.
const (
	MetricsRandomized    = "randomized"
	MetricsDeterministic = "deterministic"
)

// Config holds all application configuration. Values come from defaults, then
// the optional YAML file, then environment variables.
type Config struct {
	// Environment
	Env      string `yaml:"env" env:"ENV"` // "development", "production", etc.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Server
	ServerAddr string `yaml:"server_addr" env:"SERVER_ADDR"`
	BaseURL    string `yaml:"base_url" env:"BASE_URL"`

	// TLS/mTLS
	TLSEnabled  bool   `yaml:"tls_enabled" env:"TLS_ENABLED"`
	TLSCertFile string `yaml:"tls_cert_file" env:"TLS_CERT_FILE"`
	TLSKeyFile  string `yaml:"tls_key_file" env:"TLS_KEY_FILE"`
	TLSCAFile   string `yaml:"tls_ca_file" env:"TLS_CA_FILE"` // CA for verifying client certs (mTLS)

	// CORS
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ORIGINS"` // Comma-separated allowed origins

	// Webhook
	WebhookURL             string        `yaml:"webhook_url" env:"WEBHOOK_URL"` // empty runs in demo mode
	WebhookSource          string        `yaml:"webhook_source" env:"WEBHOOK_SOURCE"`
	WebhookFailureMode     string        `yaml:"webhook_failure_mode" env:"WEBHOOK_FAILURE_MODE"`
	WebhookTimeout         time.Duration `yaml:"webhook_timeout" env:"WEBHOOK_TIMEOUT"` // 0 keeps the client default
	WebhookMonitorInterval time.Duration `yaml:"webhook_monitor_interval" env:"WEBHOOK_MONITOR_INTERVAL"`

	// Campaign simulation
	MetricsMode     string        `yaml:"metrics_mode" env:"METRICS_MODE"`
	ProcessingDelay time.Duration `yaml:"processing_delay" env:"PROCESSING_DELAY"`
	ExecutionFloor  time.Duration `yaml:"execution_floor" env:"EXECUTION_FLOOR"`

	// Site Branding
	SiteTitle   string `yaml:"site_title" env:"SITE_TITLE"`
	SiteTagline string `yaml:"site_tagline" env:"SITE_TAGLINE"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Env:                "development",
		LogLevel:           "info",
		ServerAddr:         ":3000",
		BaseURL:            "http://localhost:3000",
		WebhookSource:      "web-app",
		WebhookFailureMode: FailOpen,
		MetricsMode:        MetricsRandomized,
		ProcessingDelay:    8 * time.Second,
		ExecutionFloor:     8 * time.Second,
		SiteTitle:          "Outreach Agent",
		SiteTagline:        "Personalized outreach to your best prospects in one click",
	}
}

// Load builds the configuration: defaults, the YAML file named by CONFIG_FILE
// (default "config.yaml", optional), then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if err := applyYAMLFile(cfg, getEnv("CONFIG_FILE", "config.yaml")); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration combinations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.WebhookFailureMode {
	case FailOpen, FailClosed:
	default:
		errs = append(errs, fmt.Errorf("webhook failure mode must be %q or %q, got %q", FailOpen, FailClosed, c.WebhookFailureMode))
	}

	switch c.MetricsMode {
	case MetricsRandomized, MetricsDeterministic:
	default:
		errs = append(errs, fmt.Errorf("metrics mode must be %q or %q, got %q", MetricsRandomized, MetricsDeterministic, c.MetricsMode))
	}

	if c.WebhookURL != "" {
		if valid, msg := validation.ValidateURL(c.WebhookURL); !valid {
			errs = append(errs, fmt.Errorf("webhook url: %s", msg))
		}
	} else if c.WebhookFailureMode == FailClosed {
		errs = append(errs, errors.New("webhook failure mode \"closed\" requires WEBHOOK_URL"))
	}

	if c.WebhookSource == "" {
		errs = append(errs, errors.New("webhook source must not be empty"))
	}

	for name, d := range map[string]time.Duration{
		"webhook timeout":          c.WebhookTimeout,
		"webhook monitor interval": c.WebhookMonitorInterval,
		"processing delay":         c.ProcessingDelay,
		"execution floor":          c.ExecutionFloor,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}

	for _, origin := range c.AllowedOrigins() {
		if valid, msg := validation.ValidateOrigin(origin); !valid {
			errs = append(errs, fmt.Errorf("cors origin %q: %s", origin, msg))
		}
	}

	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS requires TLS_CERT_FILE and TLS_KEY_FILE"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// AllowedOrigins returns the CORS origins: CORS_ORIGINS when set, otherwise
// the base URL.
func (c *Config) AllowedOrigins() []string {
	raw := c.BaseURL
	if c.CORSOrigins != "" {
		raw = c.CORSOrigins
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// FailClosed returns true if a webhook failure should fail the trigger.
func (c *Config) FailClosed() bool {
	return c.WebhookFailureMode == FailClosed
}

// IsDemoMode returns true if no webhook is configured.
func (c *Config) IsDemoMode() bool {
	return c.WebhookURL == ""
}
