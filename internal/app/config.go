package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/errlens/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "errlens"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# errlens configuration
# Run: errlens --help

# Optional: override the SQLite history database location.
# Can also be set via ERRLENS_DB_PATH or --db-path.
# db_path: ~/.config/errlens/errlens.db

# Optional: extra error suggestion rules, evaluated after the built-in kinds.
# rules_path: ~/.config/errlens/rules.yaml

# History retention used by "errlens history prune".
# history_retention_days: 30
# history_prune_batch: 500
`
