// Package settings manages persistent user settings for the rangen CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds persistent user preferences
type Settings struct {
	// DataDir overrides where uploads and generated documents are kept
	DataDir string `json:"data_dir,omitempty"`

	// DefaultReference is the reference document used when --reference is
	// not specified
	DefaultReference string `json:"default_reference,omitempty"`

	// SFTPHost is the backup server used by the fetch command
	SFTPHost string `json:"sftp_host,omitempty"`

	// SFTPUser is the backup server login
	SFTPUser string `json:"sftp_user,omitempty"`

	// SFTPRemoteDir is the backup directory on the server
	SFTPRemoteDir string `json:"sftp_remote_dir,omitempty"`

	// RedisAddr enables Redis-backed generation history when set
	RedisAddr string `json:"redis_addr,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rangen_settings.json"
	}
	return filepath.Join(home, ".rangen", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetDataDir returns the data directory (with fallback)
func (s *Settings) GetDataDir() string {
	if s.DataDir != "" {
		return s.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "rangen-data"
	}
	return filepath.Join(home, ".rangen", "data")
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
