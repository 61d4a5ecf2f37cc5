package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"EJABBERD_URL", "EJABBERD_USER", "EJABBERD_SERVER", "EJABBERD_PASSWORD",
	"EJABBERD_ADMIN", "EJABBERD_TIMEOUT", "EJABBERD_MAX_RETRIES", "EJABBERD_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envVars {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.URL != "http://127.0.0.1:4560" {
		t.Errorf("expected default URL, got %q", cfg.URL)
	}
	if cfg.User != "" {
		t.Errorf("expected empty User, got %q", cfg.User)
	}
	if !cfg.Admin {
		t.Error("expected Admin=true by default")
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected Timeout 10s, got %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected MaxRetries 0, got %d", cfg.MaxRetries)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel info, got %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to be valid, got %v", err)
	}
	if tc := cfg.TransportConfig(); tc.Auth != nil {
		t.Errorf("expected no auth without user, got %+v", tc.Auth)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("EJABBERD_URL", "http://xmpp.example.com:4560")
	t.Setenv("EJABBERD_USER", "admin")
	t.Setenv("EJABBERD_SERVER", "example.com")
	t.Setenv("EJABBERD_PASSWORD", "s3cret")
	t.Setenv("EJABBERD_ADMIN", "false")
	t.Setenv("EJABBERD_TIMEOUT", "3s")
	t.Setenv("EJABBERD_MAX_RETRIES", "4")
	t.Setenv("EJABBERD_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	tc := cfg.TransportConfig()
	if tc.URL != "http://xmpp.example.com:4560" {
		t.Errorf("expected URL from environment, got %q", tc.URL)
	}
	if tc.Timeout != 3*time.Second {
		t.Errorf("expected Timeout 3s, got %v", tc.Timeout)
	}
	if tc.Auth == nil {
		t.Fatal("expected auth to be configured")
	}
	if tc.Auth.User != "admin" || tc.Auth.Server != "example.com" || tc.Auth.Password != "s3cret" || tc.Auth.Admin {
		t.Errorf("unexpected auth %+v", tc.Auth)
	}
	if cfg.MaxRetries != 4 {
		t.Errorf("expected MaxRetries 4, got %d", cfg.MaxRetries)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Level())
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("EJABBERD_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparsable timeout")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{URL: "http://127.0.0.1:4560", Timeout: time.Second, LogLevel: "info"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing url", func(c *Config) { c.URL = "" }, "EJABBERD_URL is required"},
		{"bad url", func(c *Config) { c.URL = "not a url" }, "EJABBERD_URL must be a valid URL"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "EJABBERD_TIMEOUT must be positive"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "EJABBERD_LOG_LEVEL must be one of"},
		{"user without password", func(c *Config) {
			c.User = "admin"
			c.Server = "example.com"
		}, "EJABBERD_PASSWORD is required when EJABBERD_USER is set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn"}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected info message to be filtered")
	}
	if !strings.Contains(out, "shown") {
		t.Error("expected warn message in output")
	}
}
