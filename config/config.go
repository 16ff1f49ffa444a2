package config

import (
	"github.com/tezedge/tezedge-snapshots/config/encoding"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/metrics"
	"github.com/tezedge/tezedge-snapshots/snapshot"
)

// Config ties together the configuration of every part of the application.
type Config struct {
	Level          encoding.LogLevel `long:"level" description:"Log level"`
	LogEnvironment string            `long:"log-environment" description:"Log output flavour: dev for console, anything else for JSON"`

	Snapshot snapshot.Config `group:"Snapshot" namespace:"snapshot"`
	Metrics  metrics.Config  `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns the default configuration of every package, as
// specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Level:          encoding.LogLevel{Level: logging.InfoLevel},
		LogEnvironment: "dev",
		Snapshot:       snapshot.NewDefaultConfig(),
		Metrics:        metrics.NewDefaultConfig(),
	}
}

// Validate rejects configurations the application cannot run with.
func (c Config) Validate() error {
	return c.Snapshot.Validate()
}

// LoggingConfig is the logger configuration this configuration asks for.
func (c Config) LoggingConfig() logging.Config {
	return logging.Config{
		Environment: c.LogEnvironment,
		Level:       c.Level.Get(),
	}
}
