// Package settings provides persistent storage for crowdkit credentials.
//
// Tokens are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/crowdkit/auth.json  (default: ~/.local/share/crowdkit/)
//
// The file is a JSON object keyed by profile name ("default" unless the
// user asks otherwise), each entry carrying a Crowdin personal access
// token and optional endpoint overrides. File permissions are 0600.
//
// Token lookup order used by the CLI:
//  1. --token flag (highest priority)
//  2. CROWDIN_API_TOKEN environment variable
//  3. api_token in crowdkit.yaml
//  4. This credential store (fallback)
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "crowdkit"
	fileName    = "auth.json"
)

// DefaultProfile is the profile used when none is named.
const DefaultProfile = "default"

// Info is one stored credential entry.
type Info struct {
	// Token is the Crowdin personal access token.
	Token string `json:"token"`
	// BaseURL overrides the API endpoint (Enterprise instances).
	BaseURL string `json:"baseUrl,omitempty"`
	// ProjectID pins the entry to one project (0 = any).
	ProjectID int64 `json:"projectId,omitempty"`
}

// Store holds all credential entries, keyed by profile name.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for crowdkit.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the crowdkit data directory path.
// Default: ~/.local/share/crowdkit (or $XDG_DATA_HOME/crowdkit).
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk. Returns an empty store if
// the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return make(Store)
	}
	if store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Get returns the entry for a profile, or nil if not stored.
func Get(profile string) *Info {
	return Load()[profile]
}

// Set stores an entry for a profile (upsert).
func Set(profile string, info *Info) error {
	store := Load()
	store[profile] = info
	return Save(store)
}

// Remove deletes a profile's credentials.
func Remove(profile string) error {
	store := Load()
	if _, ok := store[profile]; !ok {
		return nil
	}
	delete(store, profile)
	return Save(store)
}

// RemoveAll removes the credential file entirely.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// Token returns the stored token for a profile, or "".
func Token(profile string) string {
	info := Get(profile)
	if info == nil {
		return ""
	}
	return info.Token
}

// ResolveToken resolves the API token by priority: explicit flag value,
// CROWDIN_API_TOKEN environment variable, configValue (the project
// config file), then the credential store.
func ResolveToken(profile, flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CROWDIN_API_TOKEN"); env != "" {
		return env
	}
	if configValue != "" {
		return configValue
	}
	return Token(profile)
}

// MaskKey returns a masked version of a token for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
