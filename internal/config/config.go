// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults
const (
	DefaultPort        = 8000
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.3
	DefaultMaxUploadMB = 10
	DefaultLabels      = "pt"
	DefaultMaxPages    = 2
)

// Config represents the application configuration. It can be loaded from a
// JSON file and from the environment; missing values use defaults or CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`          // HTTP listen port
	MaxUploadMB int    `json:"max_upload_mb,omitempty"` // Largest accepted résumé upload
	CORSOrigin  string `json:"cors_origin,omitempty"`   // Access-Control-Allow-Origin value

	// Model
	APIKey      string  `json:"api_key,omitempty"`     // Gemini API key
	Model       string  `json:"model,omitempty"`       // Gemini model name
	Temperature float64 `json:"temperature,omitempty"` // Sampling temperature (0 means default)

	// Output
	Labels   string `json:"labels,omitempty"`    // Section heading language: "pt" or "en"
	MaxPages int    `json:"max_pages,omitempty"` // Page limit reported by the document check

	// Job ingestion
	BrowserFetch bool `json:"browser_fetch,omitempty"` // Retry short job pages in headless Chrome

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:        DefaultPort,
		MaxUploadMB: DefaultMaxUploadMB,
		CORSOrigin:  "*",
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Labels:      DefaultLabels,
		MaxPages:    DefaultMaxPages,
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

// Load builds the effective configuration: environment values first, then
// the optional JSON file, then built-in defaults.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(Defaults())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// The API key is not required here; commands that call the model check it.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("config error: 'max_pages' must be non-negative")
	}
	if c.Labels != "" && c.Labels != "pt" && c.Labels != "en" {
		return fmt.Errorf("config error: 'labels' must be \"pt\" or \"en\"")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) << 20
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Labels == "" {
		result.Labels = defaults.Labels
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
