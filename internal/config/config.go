// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .journalfp/config.json.
type Config struct {
	RecordsDir    string  `json:"records_dir"`               // Directory of per-journal abstract record files
	ServiceURL    string  `json:"service_url,omitempty"`     // Fingerprint service base URL (empty = default)
	RatePerSecond float64 `json:"rate_per_second,omitempty"` // Service request rate (0 = default)
	LemmaDict     string  `json:"lemma_dict,omitempty"`      // Path to the lemma dictionary TSV
}

const (
	JournalfpDir = ".journalfp"
	ConfigFile   = "config.json"
	JournalsFile = "journals.jsonl"
	CacheDir     = "cache"
	DBFile       = "journals.db"
)

// JournalfpPath returns the path to the .journalfp directory from a root path.
func JournalfpPath(root string) string {
	return filepath.Join(root, JournalfpDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, JournalfpDir, ConfigFile)
}

// JournalsPath returns the path to journals.jsonl from a root path.
func JournalsPath(root string) string {
	return filepath.Join(root, JournalfpDir, JournalsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, JournalfpDir, CacheDir)
}

// DBPath returns the path to journals.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, JournalfpDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a journalfp repository.
func IsRepository(root string) bool {
	info, err := os.Stat(JournalfpPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a journalfp repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a journalfp repository (no .journalfp directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ValidateRecordsDir checks that the records dir path exists and is a directory.
func ValidateRecordsDir(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
