// Package settings owns the persisted user settings slot: a single JSON
// value in the base directory. Absence of the slot means defaults, and Save
// always replaces the whole value (no partial updates).
package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// FileName is the name of the settings slot inside the base directory.
const FileName = "settings.json"

// Settings is the process-wide capture configuration.
type Settings struct {
	// Enabled is the global kill switch. Capture is opt-in: false by default.
	Enabled bool `json:"enabled"`

	// WhitelistDomains limits capture to matching domains.
	// Empty means all domains are allowed.
	WhitelistDomains []string `json:"whitelist_domains"`

	// BlacklistDomains blocks capture on matching domains.
	// A blacklist match always wins over a whitelist match.
	BlacklistDomains []string `json:"blacklist_domains"`

	// RetentionDays is the record retention period. 0 keeps records forever.
	RetentionDays int `json:"retention_days"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Enabled:          false,
		WhitelistDomains: []string{},
		BlacklistDomains: []string{},
		RetentionDays:    0,
	}
}

// Store reads and writes the settings slot file.
type Store struct {
	path string
}

// NewStore creates a store over baseDir/settings.json.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.imprint.
func NewStore(baseDir string) *Store {
	return &Store{path: filepath.Join(baseDir, FileName)}
}

// Path returns the slot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the current settings. A missing slot yields Default().
func (s *Store) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.WhitelistDomains == nil {
		cfg.WhitelistDomains = []string{}
	}
	if cfg.BlacklistDomains == nil {
		cfg.BlacklistDomains = []string{}
	}
	return cfg, nil
}

// Save replaces the stored value. The write goes to a temp file first and is
// renamed into place so a crash never leaves a torn slot.
func (s *Store) Save(cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// Reset removes the slot. Subsequent loads see Default().
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
