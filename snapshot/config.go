package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/tezedge/tezedge-snapshots/config/encoding"
)

var (
	ErrCapacityMustBePositive           = errors.New("the retention capacity must be at least 1")
	ErrFrequencyMustBePositive          = errors.New("the snapshot frequency must be greater than 0")
	ErrCheckIntervalMustBePositive      = errors.New("the check interval must be greater than 0")
	ErrHelperTimeoutMustBePositive      = errors.New("the helper timeout must be greater than 0")
	ErrHelperPollIntervalMustBePositive = errors.New("the helper poll interval must be greater than 0")
)

// Config holds everything the snapshot engine needs to know about the node
// it snapshots and the directories it works with.
type Config struct {
	NodeURL                 string            `long:"node-url" description:"Address of the tezedge node's RPC endpoint"`
	NodeContainerName       string            `long:"node-container-name" description:"Name of the container running the tezedge node"`
	MonitoringContainerName string            `long:"monitoring-container-name" description:"Name of the container running the node's monitoring companion"`
	NodeImage               string            `long:"node-image" description:"Image the snapshot helper container is run from"`
	Network                 string            `long:"network" description:"Name of the tezos network the node runs on"`
	DatabaseDirectory       string            `long:"database-directory" description:"Path of the node's database directory"`
	TargetDirectory         string            `long:"target-directory" description:"Path of the directory the snapshots are promoted into"`
	ScratchDirectory        string            `long:"scratch-directory" description:"Path of the local scratch directory used while staging"`
	HostDatabaseDirectory   string            `long:"host-database-directory" env:"TEZEDGE_SNAPSHOTS_HOST_DATABASE_DIR" description:"Host-side path of the database directory, when this process runs in a container itself"`
	HostTargetDirectory     string            `long:"host-target-directory" env:"TEZEDGE_SNAPSHOTS_HOST_TARGET_DIR" description:"Host-side path of the target directory, when this process runs in a container itself"`
	Capacity                int               `long:"capacity" description:"Maximum number of promoted snapshots kept per kind"`
	Frequency               encoding.Duration `long:"frequency" description:"Time to wait between two snapshot attempts"`
	CheckInterval           encoding.Duration `long:"check-interval" description:"Time to wait between two eligibility checks"`
	HelperTimeout           encoding.Duration `long:"helper-timeout" description:"Maximum time the snapshot helper container may run for"`
	HelperPollInterval      encoding.Duration `long:"helper-poll-interval" description:"Time to wait between two helper container status checks"`
	Kind                    Selector          `long:"kind" description:"Kind of snapshot to produce: archive, full or all"`
}

// NewDefaultConfig targets the usual single-host deployment, with the node
// and its monitoring companion running next to this process.
func NewDefaultConfig() Config {
	return Config{
		NodeURL:                 "http://localhost:18732",
		NodeContainerName:       "tezedge-node",
		MonitoringContainerName: "tezedge-monitoring",
		NodeImage:               "tezedge/tezedge:latest",
		Network:                 "mainnet",
		DatabaseDirectory:       "/var/lib/tezedge",
		TargetDirectory:         "/var/lib/tezedge-snapshots",
		ScratchDirectory:        "/tmp/tezedge-snapshots-tmp",
		Capacity:                5,
		Frequency:               encoding.Duration{Duration: 24 * time.Hour},
		CheckInterval:           encoding.Duration{Duration: 5 * time.Second},
		HelperTimeout:           encoding.Duration{Duration: 3 * time.Hour},
		HelperPollInterval:      encoding.Duration{Duration: time.Second},
		Kind:                    SelectorArchive,
	}
}

// Validate rejects configurations the engine cannot safely run with. The
// node URL is not checked here, building the RPC client covers it.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return ErrCapacityMustBePositive
	}
	if c.Frequency.Duration <= 0 {
		return ErrFrequencyMustBePositive
	}
	if c.CheckInterval.Duration <= 0 {
		return ErrCheckIntervalMustBePositive
	}
	if c.HelperTimeout.Duration <= 0 {
		return ErrHelperTimeoutMustBePositive
	}
	if c.HelperPollInterval.Duration <= 0 {
		return ErrHelperPollIntervalMustBePositive
	}
	for name, value := range map[string]string{
		"node-container-name": c.NodeContainerName,
		"network":             c.Network,
		"database-directory":  c.DatabaseDirectory,
		"target-directory":    c.TargetDirectory,
		"scratch-directory":   c.ScratchDirectory,
	} {
		if len(value) == 0 {
			return fmt.Errorf("the %s setting can't be empty", name)
		}
	}
	return nil
}

// HostDatabasePath is the database directory path as seen by the docker
// daemon. It differs from DatabaseDirectory when this process runs inside a
// container with the directory mounted somewhere else on the host.
func (c Config) HostDatabasePath() string {
	if len(c.HostDatabaseDirectory) > 0 {
		return c.HostDatabaseDirectory
	}
	return c.DatabaseDirectory
}

// HostTargetPath is the target directory path as seen by the docker daemon.
func (c Config) HostTargetPath() string {
	if len(c.HostTargetDirectory) > 0 {
		return c.HostTargetDirectory
	}
	return c.TargetDirectory
}
