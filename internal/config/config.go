// Package config provides configuration loading and validation for the site.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Relay variants understood by the contact client.
const (
	RelayWeb3Forms = "web3forms"
	RelayFormspree = "formspree"
)

// Defaults used when neither the config file nor the flags set a value.
const (
	DefaultPort          = 8080
	DefaultRelayEndpoint = "https://api.web3forms.com/submit"
	DefaultResumeFile    = "resume.pdf"
)

// Config represents the site configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, CLI flags or the environment.
type Config struct {
	// Serving
	Port    int    `json:"port,omitempty"`     // Port to listen on
	SiteURL string `json:"site_url,omitempty"` // Public URL of the site, used for sharing

	// Content
	Content    string `json:"content,omitempty"`     // Path to portfolio content JSON (empty: built-in)
	ResumeFile string `json:"resume_file,omitempty"` // Path to the resume PDF on disk
	Watch      bool   `json:"watch,omitempty"`       // Reload content when the file changes

	// Contact relay
	RelayEndpoint  string `json:"relay_endpoint,omitempty"`   // Form relay URL
	RelayVariant   string `json:"relay_variant,omitempty"`    // web3forms or formspree
	RelayAccessKey string `json:"relay_access_key,omitempty"` // Service-identifying token

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (optional)

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// FromEnv returns the values the environment supplies.
// PORTFOLIO_RELAY_ACCESS_KEY, PORTFOLIO_RELAY_ENDPOINT, PORTFOLIO_RELAY_VARIANT,
// PORTFOLIO_SITE_URL and DATABASE_URL are read.
func FromEnv() Config {
	return Config{
		SiteURL:        os.Getenv("PORTFOLIO_SITE_URL"),
		RelayEndpoint:  os.Getenv("PORTFOLIO_RELAY_ENDPOINT"),
		RelayVariant:   os.Getenv("PORTFOLIO_RELAY_VARIANT"),
		RelayAccessKey: os.Getenv("PORTFOLIO_RELAY_ACCESS_KEY"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	switch c.RelayVariant {
	case "", RelayWeb3Forms, RelayFormspree:
	default:
		return fmt.Errorf("config error: unknown relay variant %q", c.RelayVariant)
	}

	if c.RelayEndpoint != "" {
		u, err := url.Parse(c.RelayEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: invalid relay endpoint: %s", c.RelayEndpoint)
		}
	}

	if c.SiteURL != "" {
		u, err := url.Parse(c.SiteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: invalid site URL: %s", c.SiteURL)
		}
	}

	if c.Content != "" {
		if _, err := os.Stat(c.Content); os.IsNotExist(err) {
			return fmt.Errorf("config error: content file not found: %s", c.Content)
		}
	}
	if c.Watch && c.Content == "" {
		return fmt.Errorf("config error: 'watch' requires a content file")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Used to layer flags over the config file over the environment.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SiteURL == "" {
		result.SiteURL = defaults.SiteURL
	}
	if result.Content == "" {
		result.Content = defaults.Content
	}
	if result.ResumeFile == "" {
		result.ResumeFile = defaults.ResumeFile
	}
	if result.RelayEndpoint == "" {
		result.RelayEndpoint = defaults.RelayEndpoint
	}
	if result.RelayVariant == "" {
		result.RelayVariant = defaults.RelayVariant
	}
	if result.RelayAccessKey == "" {
		result.RelayAccessKey = defaults.RelayAccessKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Bool fields: cannot distinguish unset from false, so only true propagates
	result.Watch = result.Watch || defaults.Watch
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// WithBuiltins fills whatever is still unset with the built-in defaults.
func (c Config) WithBuiltins() Config {
	return c.MergeWithDefaults(Config{
		Port:          DefaultPort,
		ResumeFile:    DefaultResumeFile,
		RelayEndpoint: DefaultRelayEndpoint,
		RelayVariant:  RelayWeb3Forms,
	})
}
