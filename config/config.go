// Package config loads crowdkit settings. Sources are merged in priority
// order:
//
//  1. process environment (CROWDIN_API_TOKEN, CROWDIN_PROJECT_ID,
//     CROWDIN_BASE_URL), with an optional .env file loaded first
//  2. crowdkit.yaml in the working directory
//  3. built-in defaults
//
// Flags are applied on top by the CLI layer after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/crowdkit/crowdkit/crowdin"
	"github.com/crowdkit/crowdkit/ratelimit"
)

// FileName is the default config file name.
const FileName = "crowdkit.yaml"

// EnvFileName is the optional dotenv file loaded before reading env vars.
const EnvFileName = ".env"

// Config holds all crowdkit settings.
type Config struct {
	// APIToken is the Crowdin personal access token. Usually supplied
	// via environment or the credential store rather than yaml.
	APIToken string `yaml:"api_token,omitempty"`
	// ProjectID is the numeric Crowdin project ID.
	ProjectID int64 `yaml:"project_id"`
	// BaseURL is the API endpoint; Enterprise instances override it.
	BaseURL string `yaml:"base_url,omitempty"`

	// BatchSize is the number of strings processed per upload batch.
	BatchSize int `yaml:"batch_size,omitempty"`
	// SearchLimit caps how many untranslated strings one pass fetches.
	SearchLimit int `yaml:"search_limit,omitempty"`
	// ExcludeLabels are label titles filtered out of completeness scans.
	ExcludeLabels []string `yaml:"exclude_labels,omitempty"`

	// Names and Brands feed the classifier's exact-match lists.
	Names  []string `yaml:"names,omitempty"`
	Brands []string `yaml:"brands,omitempty"`

	// Workers bounds per-language and per-item request fan-out.
	Workers int `yaml:"workers,omitempty"`
	// RateLimit configures client-side request pacing.
	RateLimit ratelimit.Config `yaml:"rate_limit,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		BaseURL:       crowdin.DefaultBaseURL,
		BatchSize:     10,
		SearchLimit:   50,
		ExcludeLabels: []string{"do-not-translate"},
		Workers:       4,
		RateLimit:     ratelimit.DefaultConfig(),
	}
}

// Load builds the configuration for the given working directory.
func Load(rootDir string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(filepath.Join(rootDir, FileName)); err != nil {
		return nil, err
	}

	// .env is a convenience for local runs; a missing file is fine.
	_ = godotenv.Load(filepath.Join(rootDir, EnvFileName))

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	// Zero or negative tuning values fall back to the defaults rather
	// than stalling batches or fan-out.
	def := Default()
	if cfg.BatchSize < 1 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.SearchLimit < 1 {
		cfg.SearchLimit = def.SearchLimit
	}
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	return cfg, nil
}

// loadFile merges crowdkit.yaml if present.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// loadEnv overrides with environment variables.
func (c *Config) loadEnv() error {
	if v := os.Getenv("CROWDIN_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("CROWDIN_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CROWDIN_PROJECT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &crowdin.ConfigError{Reason: fmt.Sprintf("CROWDIN_PROJECT_ID %q is not numeric", v)}
		}
		c.ProjectID = id
	}
	return nil
}

// Validate checks that the configuration can reach a project.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return &crowdin.ConfigError{Reason: "no API token: set CROWDIN_API_TOKEN or run 'crowdkit auth login'"}
	}
	if c.ProjectID <= 0 {
		return &crowdin.ConfigError{Reason: "no project: set CROWDIN_PROJECT_ID or project_id in crowdkit.yaml"}
	}
	return nil
}
