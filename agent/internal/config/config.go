package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultReportFormat = "text"
)

// Config is the top-level agent configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig holds all agent-side settings.
type AgentConfig struct {
	// SourceEndpoint is the base URL of the analytics API,
	// e.g. "http://localhost:8080".
	SourceEndpoint string `yaml:"source_endpoint"`

	// Timeout bounds each request to the Metrics Source.
	Timeout time.Duration `yaml:"timeout"`

	// Interval re-runs the analysis on a ticker when positive.
	// Zero means a single one-shot analysis.
	Interval time.Duration `yaml:"interval"`

	// FallbackToMock switches to the built-in mock dataset when the
	// Metrics Source is unreachable, instead of failing the analysis.
	FallbackToMock bool `yaml:"fallback_to_mock"`

	// Sections lists the optional breakdowns to fetch alongside traffic:
	// "pages" and/or "sources". Absent sections are tolerated.
	Sections []string `yaml:"sections"`

	// ReportFormat selects the report renderer: text | json.
	ReportFormat string `yaml:"report_format"`

	// Auth configures how the agent authenticates to the Metrics Source.
	Auth AuthConfig `yaml:"auth"`

	// Probe configures the optional pre-flight scrape of the source's
	// Prometheus exposition endpoint.
	Probe ProbeConfig `yaml:"probe"`
}

// AuthConfig specifies the authentication mode for the Metrics Source.
type AuthConfig struct {
	// Mode is one of: apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// API key fields — used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields — used when Mode == "bearer".
	// TokenEnv is the name of the environment variable that holds the token.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields — used when Mode == "basic".
	// Username is the literal username (safe to store in config).
	Username string `yaml:"username"`
	// PasswordEnv is the name of the environment variable that holds the password.
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// ProbeConfig controls the source self-metrics probe.
type ProbeConfig struct {
	// Enabled turns the probe on.
	Enabled bool `yaml:"enabled"`

	// Endpoint overrides the exposition URL. When empty, the probe uses
	// SourceEndpoint + "/metrics".
	Endpoint string `yaml:"endpoint"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			Timeout:      DefaultTimeout,
			ReportFormat: DefaultReportFormat,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Agent.SourceEndpoint == "" {
		return fmt.Errorf("agent.source_endpoint is required")
	}
	if cfg.Agent.Timeout <= 0 {
		return fmt.Errorf("agent.timeout must be positive")
	}
	if cfg.Agent.Interval < 0 {
		return fmt.Errorf("agent.interval must not be negative")
	}
	switch cfg.Agent.ReportFormat {
	case "text", "json":
	default:
		return fmt.Errorf("agent.report_format: unknown format %q", cfg.Agent.ReportFormat)
	}
	for i, sec := range cfg.Agent.Sections {
		switch sec {
		case "pages", "sources":
		default:
			return fmt.Errorf("agent.sections[%d]: unknown section %q", i, sec)
		}
	}
	switch cfg.Agent.Auth.Mode {
	case "apikey", "bearer", "basic", "none", "":
	default:
		return fmt.Errorf("agent.auth: unknown mode %q", cfg.Agent.Auth.Mode)
	}
	return nil
}
