package commands

import (
	"context"
	"fmt"

	"github.com/tezedge/tezedge-snapshots/config"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/paths"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	config.HomeFlag

	Force bool `short:"f" long:"force" description:"Erase the existing configuration at the specified path"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	appPaths := paths.New(opts.Home)

	cfgLoader, err := config.InitialiseLoader(appPaths)
	if err != nil {
		return fmt.Errorf("couldn't initialise configuration loader: %w", err)
	}

	configExists, err := cfgLoader.ConfigExists()
	if err != nil {
		return fmt.Errorf("couldn't verify configuration presence: %w", err)
	}

	if configExists && !opts.Force {
		return fmt.Errorf("configuration already exists at `%s` please remove it first or re-run using -f", cfgLoader.ConfigFilePath())
	}

	if configExists && opts.Force {
		cfgLoader.RemoveConfig()
	}

	cfg := config.NewDefaultConfig()

	if err := cfgLoader.SaveConfig(&cfg); err != nil {
		return fmt.Errorf("couldn't save configuration file: %w", err)
	}

	logger.Info("configuration generated successfully", logging.String("path", cfgLoader.ConfigFilePath()))

	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	short := "Initializes the snapshotter"
	long := "Generate the minimal configuration required for the tezedge snapshotter to start"

	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
