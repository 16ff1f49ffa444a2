package config

import (
	"fmt"
	"os"

	vgfs "github.com/tezedge/tezedge-snapshots/libs/fs"
	"github.com/tezedge/tezedge-snapshots/paths"
)

// Loader reads and writes the application configuration file at its
// canonical location.
type Loader struct {
	configFilePath string
}

func InitialiseLoader(appPaths paths.Paths) (*Loader, error) {
	configFilePath, err := appPaths.CreateConfigPathFor(paths.DefaultConfigFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't get path for %s: %w", paths.DefaultConfigFile, err)
	}

	return &Loader{
		configFilePath: configFilePath,
	}, nil
}

func (l *Loader) ConfigFilePath() string {
	return l.configFilePath
}

func (l *Loader) ConfigExists() (bool, error) {
	exists, err := vgfs.FileExists(l.configFilePath)
	if err != nil {
		return false, fmt.Errorf("couldn't verify file presence: %w", err)
	}
	return exists, nil
}

// GetConfig reads the configuration file over the defaults, so a partial
// file is completed with default values.
func (l *Loader) GetConfig() (*Config, error) {
	cfg := NewDefaultConfig()
	if err := paths.ReadStructuredFile(l.configFilePath, &cfg); err != nil {
		return nil, fmt.Errorf("couldn't read file at %s: %w", l.configFilePath, err)
	}
	return &cfg, nil
}

func (l *Loader) SaveConfig(cfg *Config) error {
	if err := paths.WriteStructuredFile(l.configFilePath, cfg); err != nil {
		return fmt.Errorf("couldn't write file at %s: %w", l.configFilePath, err)
	}
	return nil
}

func (l *Loader) RemoveConfig() {
	_ = os.RemoveAll(l.configFilePath)
}
