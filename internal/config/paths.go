package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configFileName = "options.json"

type Paths struct {
	BaseDir    string
	ConfigPath string
}

func ResolvePaths(appSlug string) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
	}

	return PathsUnder(filepath.Join(configDir, appSlug)), nil
}

func PathsUnder(baseDir string) Paths {
	return Paths{
		BaseDir:    baseDir,
		ConfigPath: filepath.Join(baseDir, configFileName),
	}
}

// EnsureBaseDir creates the directory holding the config file.
func (p Paths) EnsureBaseDir() error {
	if err := os.MkdirAll(p.BaseDir, 0o755); err != nil {
		return fmt.Errorf("create app config dir: %w", err)
	}
	return nil
}
