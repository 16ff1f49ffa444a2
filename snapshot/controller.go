package snapshot

import (
	"context"
	"fmt"

	"github.com/tezedge/tezedge-snapshots/logging"

	"github.com/cenkalti/backoff/v4"
)

const controllerNamedLogger = "lifecycle"

// NodeController stops and starts the node and its monitoring companion.
// Both operations act on the node first: monitoring must never run against
// a node that is not yet started, and must be stopped promptly once its
// node is.
type NodeController struct {
	log *logging.Logger

	runtime ContainerRuntime
	head    HeadProvider

	nodeContainer       string
	monitoringContainer string
}

func NewNodeController(log *logging.Logger, runtime ContainerRuntime, head HeadProvider, nodeContainer, monitoringContainer string) *NodeController {
	return &NodeController{
		log:                 log.Named(controllerNamedLogger),
		runtime:             runtime,
		head:                head,
		nodeContainer:       nodeContainer,
		monitoringContainer: monitoringContainer,
	}
}

// Stop stops the node container, then the monitoring container. A failure
// aborts the sequence, stopping the monitor of a node we failed to stop
// would only hide the problem.
func (c *NodeController) Stop(ctx context.Context) error {
	if err := c.runtime.StopContainer(ctx, c.nodeContainer); err != nil {
		return fmt.Errorf("couldn't stop the node: %w", err)
	}
	c.log.Info("Tezedge node container stopped", logging.String("container", c.nodeContainer))

	if err := c.runtime.StopContainer(ctx, c.monitoringContainer); err != nil {
		return fmt.Errorf("couldn't stop the monitoring companion: %w", err)
	}
	c.log.Info("Monitoring container stopped", logging.String("container", c.monitoringContainer))

	return nil
}

// Start starts the node container, then the monitoring container, and then
// waits a short while for the node to serve its head again. The wait is
// best-effort only, the next eligibility check re-probes the node anyway.
func (c *NodeController) Start(ctx context.Context) error {
	if err := c.runtime.StartContainer(ctx, c.nodeContainer); err != nil {
		return fmt.Errorf("couldn't start the node: %w", err)
	}
	c.log.Info("Tezedge node container started", logging.String("container", c.nodeContainer))

	if err := c.runtime.StartContainer(ctx, c.monitoringContainer); err != nil {
		return fmt.Errorf("couldn't start the monitoring companion: %w", err)
	}
	c.log.Info("Monitoring container started", logging.String("container", c.monitoringContainer))

	c.verifyNodeServesItsHead(ctx)

	return nil
}

func (c *NodeController) verifyNodeServesItsHead(ctx context.Context) {
	err := backoff.Retry(
		func() error {
			_, err := c.head.GetHeadHeader(ctx)
			return err
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
	)
	if err != nil {
		c.log.Warn("The node does not serve its head yet", logging.Error(err))
		return
	}
	c.log.Debug("The node serves its head again")
}
