package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the project configuration file looked up by Find.
const FileName = "toolbelt.yaml"

// EnvConfig overrides config discovery with an explicit file path.
const EnvConfig = "TOOLBELT_CONFIG"

// Find walks up from start looking for FileName and returns its path.
func Find(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(current, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", FileName, start)
}

// HistoryDBPath returns the absolute path of the run history database.
func (c *Config) HistoryDBPath() string {
	return c.GetPath("history.db_path", DefaultHistoryDBPath)
}
