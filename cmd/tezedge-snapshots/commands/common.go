package commands

import (
	"fmt"

	"github.com/tezedge/tezedge-snapshots/config"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/paths"

	"github.com/jessevdk/go-flags"
)

func loadConfig(logger *logging.Logger, home string) (*config.Config, *config.Loader, error) {
	appPaths := paths.New(home)

	loader, err := config.InitialiseLoader(appPaths)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't initialise configuration loader: %w", err)
	}

	exists, err := loader.ConfigExists()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't verify configuration presence: %w", err)
	}

	var cfg *config.Config
	if exists {
		cfg, err = loader.GetConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't get configuration: %w", err)
		}
	} else {
		logger.Warn("No config file found, using defaults. Create one with 'tezedge-snapshots init'")
		defaultCfg := config.NewDefaultConfig()
		cfg = &defaultCfg
	}

	// Apply any command line overrides.
	if _, err := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown).Parse(); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("the configuration is invalid: %w", err)
	}

	return cfg, loader, nil
}
