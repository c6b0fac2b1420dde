package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crowdkit/crowdkit/crowdin"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CROWDIN_API_TOKEN", "")
	t.Setenv("CROWDIN_BASE_URL", "")
	t.Setenv("CROWDIN_PROJECT_ID", "")
	os.Unsetenv("CROWDIN_API_TOKEN")
	os.Unsetenv("CROWDIN_BASE_URL")
	os.Unsetenv("CROWDIN_PROJECT_ID")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BaseURL != crowdin.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.BatchSize)
	}
	if cfg.SearchLimit != 50 {
		t.Errorf("SearchLimit = %d, want 50", cfg.SearchLimit)
	}
	if len(cfg.ExcludeLabels) != 1 || cfg.ExcludeLabels[0] != "do-not-translate" {
		t.Errorf("ExcludeLabels = %v", cfg.ExcludeLabels)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

// ---------------------------------------------------------------------------
// Precedence: defaults < yaml < env
// ---------------------------------------------------------------------------

func TestLoad_YamlOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
project_id: 42
batch_size: 25
exclude_labels: [wip, draft]
names: ["Steve Jobs"]
rate_limit:
  strategy: fixed_delay
  fixed_delay: 500ms
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ProjectID != 42 {
		t.Errorf("ProjectID = %d, want 42", cfg.ProjectID)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if len(cfg.ExcludeLabels) != 2 || cfg.ExcludeLabels[0] != "wip" {
		t.Errorf("ExcludeLabels = %v", cfg.ExcludeLabels)
	}
	if len(cfg.Names) != 1 || cfg.Names[0] != "Steve Jobs" {
		t.Errorf("Names = %v", cfg.Names)
	}
	if string(cfg.RateLimit.Strategy) != "fixed_delay" {
		t.Errorf("RateLimit.Strategy = %q", cfg.RateLimit.Strategy)
	}
	// Untouched keys keep their defaults.
	if cfg.SearchLimit != 50 {
		t.Errorf("SearchLimit = %d, want default 50", cfg.SearchLimit)
	}
}

func TestLoad_EnvOverridesYaml(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, "project_id: 42\n")
	t.Setenv("CROWDIN_PROJECT_ID", "77")
	t.Setenv("CROWDIN_API_TOKEN", "env-token")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ProjectID != 77 {
		t.Errorf("ProjectID = %d, want env override 77", cfg.ProjectID)
	}
	if cfg.APIToken != "env-token" {
		t.Errorf("APIToken = %q", cfg.APIToken)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, EnvFileName, "CROWDIN_PROJECT_ID=99\nCROWDIN_API_TOKEN=dotenv-token\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ProjectID != 99 {
		t.Errorf("ProjectID = %d, want 99 from .env", cfg.ProjectID)
	}
	if cfg.APIToken != "dotenv-token" {
		t.Errorf("APIToken = %q", cfg.APIToken)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestLoad_NonNumericProjectID(t *testing.T) {
	clearEnv(t)
	t.Setenv("CROWDIN_PROJECT_ID", "forty-two")

	_, err := Load(t.TempDir())
	var cfgErr *crowdin.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *crowdin.ConfigError", err)
	}
}

func TestLoad_MalformedYaml(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, "project_id: [broken\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("want error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	var cfgErr *crowdin.ConfigError

	if err := cfg.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("no token: error = %v, want ConfigError", err)
	}

	cfg.APIToken = "tok"
	if err := cfg.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("no project: error = %v, want ConfigError", err)
	}

	cfg.ProjectID = 42
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config: error = %v", err)
	}
}
