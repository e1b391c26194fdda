package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes body to a temp file and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
agent:
  source_endpoint: http://localhost:8080
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agent.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Agent.Timeout, DefaultTimeout)
	}
	if cfg.Agent.ReportFormat != DefaultReportFormat {
		t.Errorf("ReportFormat = %q, want %q", cfg.Agent.ReportFormat, DefaultReportFormat)
	}
	if cfg.Agent.Interval != 0 {
		t.Errorf("Interval = %v, want 0 (one-shot)", cfg.Agent.Interval)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
agent:
  source_endpoint: http://analytics.internal:9000
  timeout: 5s
  interval: 30s
  fallback_to_mock: true
  sections: [pages, sources]
  report_format: json
  auth:
    mode: apikey
    header: X-API-Key
    key_env: WEBPULSE_API_KEY
  probe:
    enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agent.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Agent.Timeout)
	}
	if cfg.Agent.Interval != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", cfg.Agent.Interval)
	}
	if !cfg.Agent.FallbackToMock {
		t.Error("FallbackToMock = false, want true")
	}
	if len(cfg.Agent.Sections) != 2 {
		t.Errorf("Sections = %v, want [pages sources]", cfg.Agent.Sections)
	}
	if cfg.Agent.Auth.Mode != "apikey" || cfg.Agent.Auth.Header != "X-API-Key" {
		t.Errorf("Auth = %+v, want apikey via X-API-Key", cfg.Agent.Auth)
	}
	if !cfg.Agent.Probe.Enabled {
		t.Error("Probe.Enabled = false, want true")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing endpoint",
			body:    "agent:\n  timeout: 5s\n",
			wantMsg: "source_endpoint is required",
		},
		{
			name:    "bad section",
			body:    "agent:\n  source_endpoint: http://x\n  sections: [demographics]\n",
			wantMsg: "unknown section",
		},
		{
			name:    "bad report format",
			body:    "agent:\n  source_endpoint: http://x\n  report_format: pdf\n",
			wantMsg: "unknown format",
		},
		{
			name:    "bad auth mode",
			body:    "agent:\n  source_endpoint: http://x\n  auth:\n    mode: kerberos\n",
			wantMsg: "unknown mode",
		},
		{
			name:    "negative interval",
			body:    "agent:\n  source_endpoint: http://x\n  interval: -10s\n",
			wantMsg: "interval",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %v, want containing %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}

func TestAuthConfig_EnvResolution(t *testing.T) {
	t.Setenv("TEST_WEBPULSE_KEY", "s3cret")
	a := AuthConfig{Mode: "apikey", Header: "X-API-Key", KeyEnv: "TEST_WEBPULSE_KEY"}
	if got := a.Key(); got != "s3cret" {
		t.Errorf("Key() = %q, want s3cret", got)
	}

	if got := (AuthConfig{}).Key(); got != "" {
		t.Errorf("Key() with no KeyEnv = %q, want empty", got)
	}
	if got := (AuthConfig{TokenEnv: "TEST_WEBPULSE_ABSENT"}).Token(); got != "" {
		t.Errorf("Token() for unset var = %q, want empty", got)
	}
}
