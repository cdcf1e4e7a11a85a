package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	configDirName  = "trello-sync"
	configFileName = "config.toml"
)

// ConfigPath returns the path of the user-level config file, or ""
// when no user config directory can be resolved.
func ConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, configDirName, configFileName)
}

// loadFile overlays settings from a TOML file onto s. A missing file is
// not an error; the file is optional.
func loadFile(path string, s *Settings) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return toml.Unmarshal(data, s)
}

// Save writes settings to the config file, creating the directory if
// needed. Used by the setup wizard.
func Save(path string, s *Settings) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}
