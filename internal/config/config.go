// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by ApplyEnv
const (
	EnvDatabaseURL  = "DATABASE_URL"
	EnvPort         = "PORT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogJSON      = "LOG_JSON"
	EnvOutputDir    = "OUTPUT_DIR"
	EnvTemplatesDir = "TEMPLATES_DIR"
	EnvContentDir   = "CONTENT_DIR"
	EnvBaseURL      = "BASE_URL"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Sources
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	ContentDir  string `json:"content_dir,omitempty"`  // Directory of <user_id>.json|yaml bundles

	// Output
	OutputDir    string `json:"output_dir,omitempty"`                          // Root for published sites
	TemplatesDir string `json:"templates_dir,omitempty"`                       // Overrides the built-in templates
	BaseURL      string `json:"base_url,omitempty" validate:"omitempty,url"`   // Prefix for public site URLs
	SiteTitle    string `json:"site_title,omitempty" validate:"omitempty,max=120"`

	// Server
	Port           int      `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// Behavior
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogJSON  bool   `json:"log_json,omitempty"`
	Verbose  bool   `json:"verbose,omitempty"` // Print detailed validation output
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		OutputDir: "public",
		BaseURL:   "http://localhost:8080/files",
		Port:      8080,
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvContentDir); v != "" {
		c.ContentDir = v
	}
	if v := getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := getenv(EnvTemplatesDir); v != "" {
		c.TemplatesDir = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a boolean: %w", EnvLogJSON, err)
		}
		c.LogJSON = b
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a number: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.TemplatesDir != "" {
		info, err := os.Stat(c.TemplatesDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: templates directory not found: %s", c.TemplatesDir)
		}
	}
	if c.ContentDir != "" {
		info, err := os.Stat(c.ContentDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: content directory not found: %s", c.ContentDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ContentDir == "" {
		result.ContentDir = defaults.ContentDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.TemplatesDir == "" {
		result.TemplatesDir = defaults.TemplatesDir
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.SiteTitle == "" {
		result.SiteTitle = defaults.SiteTitle
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load builds the effective configuration: file values (when path is set),
// then environment overrides, then built-in defaults for anything still empty.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
