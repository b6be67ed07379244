// Package config loads and persists assistant configuration from a YAML file
// under ~/.pagesage/. Provider API keys may be left out of the file; the
// provider adapters fall back to their environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Provider identifiers used as registry IDs and as keys in the providers map.
const (
	ProviderGemini     = "gemini"
	ProviderXAI        = "xai"
	ProviderPerplexity = "perplexity"
)

// DefaultHistoryTokenBudget bounds the prior-context block of built prompts.
const DefaultHistoryTokenBudget = 4096

// ProviderConfig holds the per-provider connection settings. Empty fields use
// the adapter's defaults.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// Config is the root configuration document.
type Config struct {
	// DefaultProvider selects the initially active provider. Empty keeps the
	// first successfully constructed provider active.
	DefaultProvider string `yaml:"default_provider,omitempty"`

	// Providers maps provider identifiers to their connection settings.
	Providers map[string]ProviderConfig `yaml:"providers,omitempty"`

	// StoragePath locates the conversation store file. Empty uses
	// ~/.pagesage/conversations.json.
	StoragePath string `yaml:"storage_path,omitempty"`

	// LogDirectory locates session log files. Empty uses ~/.pagesage/logs.
	LogDirectory string `yaml:"log_directory,omitempty"`

	// HistoryTokenBudget bounds the prior-context block of built prompts.
	HistoryTokenBudget int `yaml:"history_token_budget,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProvider:    ProviderGemini,
		Providers:          make(map[string]ProviderConfig),
		HistoryTokenBudget: DefaultHistoryTokenBudget,
	}
}

// DefaultPath returns ~/.pagesage/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pagesage", "config.yaml"), nil
}

// Load reads the configuration at path. A missing file yields the defaults; a
// present but unparseable file is an error. If path is empty the default path
// is used.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.HistoryTokenBudget <= 0 {
		cfg.HistoryTokenBudget = DefaultHistoryTokenBudget
	}
	return cfg, nil
}

// Save writes the configuration to path atomically, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("config: failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to encode config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("config: failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("config: failed to rename temp file: %w", err)
	}
	return nil
}

// Provider returns the settings for a provider identifier, or the zero value
// when none are configured.
func (c *Config) Provider(id string) ProviderConfig {
	return c.Providers[id]
}
