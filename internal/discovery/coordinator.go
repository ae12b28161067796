package discovery

import (
	"context"
	"errors"

	"github.com/meridianmq/meridian/internal/config"
	"github.com/meridianmq/meridian/internal/metrics"
	"go.uber.org/zap"
)

// Coordinator drives the peer discovery and registration sequence during
// node boot. Discovery errors propagate to the caller, which decides
// whether they abort cluster join. Registration and unregistration are
// fail-soft: backend failures are logged and swallowed so that an
// unreachable directory service never blocks node boot or shutdown.
//
// The coordinator runs synchronously on the single boot path; it performs
// at most one outstanding backend call at a time and holds no shared
// mutable state.
type Coordinator struct {
	cfg     *config.DiscoveryConfig
	backend Backend
	delay   *DelayInjector
	logger  *zap.Logger
	metrics *metrics.PrometheusMetrics
}

// NewCoordinator creates a Coordinator for the given backend. The
// configuration is read once and treated as immutable for the run.
func NewCoordinator(cfg *config.DiscoveryConfig, backend Backend, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		backend: backend,
		delay:   NewDelayInjector(cfg.StartupDelayMin, cfg.StartupDelayMax, logger),
		logger:  logger,
		metrics: metrics.GetMetrics(),
	}
}

// DiscoverClusterNodes asks the backend for the current cluster members and
// returns them in canonical form. A backend listing failure propagates
// verbatim; a result outside the documented shapes returns an error
// wrapping ErrMalformedResult and must abort the boot path.
func (c *Coordinator) DiscoverClusterNodes(ctx context.Context) (Result, error) {
	c.logger.Debug("listing cluster nodes",
		zap.String("backend", c.cfg.Backend),
	)

	raw := c.backend.ListNodes(ctx)
	result, err := Normalize(raw)
	if err != nil {
		c.metrics.IncDiscoveryFailures(c.cfg.Backend)
		if errors.Is(err, ErrMalformedResult) {
			c.logger.Error("discovery backend returned an unrecognized result shape",
				zap.String("backend", c.cfg.Backend),
				zap.Error(err),
			)
		} else {
			c.logger.Error("failed to list cluster nodes",
				zap.String("backend", c.cfg.Backend),
				zap.Error(err),
			)
		}
		return Result{}, err
	}

	c.metrics.SetPeersDiscovered(len(result.Nodes))
	c.logger.Info("discovered cluster nodes",
		zap.String("backend", c.cfg.Backend),
		zap.Int("count", len(result.Nodes)),
		zap.String("node_type", string(result.NodeType)),
	)
	return result, nil
}

// MaybeRegister announces this node's presence when the backend supports
// registration, applying the randomized startup delay first. Backends
// without registration support make this a logged no-op. Always returns
// nil; registration failure is deliberately non-fatal to node boot.
func (c *Coordinator) MaybeRegister(ctx context.Context) error {
	if !c.backend.SupportsRegistration() {
		c.logger.Info("backend does not support registration, skipping",
			zap.String("backend", c.cfg.Backend),
		)
		c.metrics.RecordRegistration("register", "skipped")
		return nil
	}

	applied := c.delay.Inject()
	c.metrics.ObserveStartupDelay(applied.Seconds())

	c.logger.Info("registering node with peer discovery backend",
		zap.String("backend", c.cfg.Backend),
		zap.String("node", c.cfg.NodeName),
	)
	if err := c.backend.Register(ctx); err != nil {
		// Swallowed on purpose: the node must still be able to boot and
		// join even when the external directory is unreachable.
		c.logger.Error("node registration failed, continuing boot",
			zap.String("backend", c.cfg.Backend),
			zap.Error(err),
		)
		c.metrics.RecordRegistration("register", "failed")
		return nil
	}
	c.metrics.RecordRegistration("register", "ok")

	if err := c.backend.PostRegistration(ctx); err != nil {
		c.logger.Error("post-registration hook failed",
			zap.String("backend", c.cfg.Backend),
			zap.Error(err),
		)
	}
	return nil
}

// MaybeUnregister withdraws this node's presence when the backend supports
// registration. It mirrors MaybeRegister without the startup delay, since
// unregistration happens at shutdown where staggering is not needed. Same
// fail-soft policy: always returns nil.
func (c *Coordinator) MaybeUnregister(ctx context.Context) error {
	if !c.backend.SupportsRegistration() {
		c.logger.Info("backend does not support registration, skipping unregister",
			zap.String("backend", c.cfg.Backend),
		)
		c.metrics.RecordRegistration("unregister", "skipped")
		return nil
	}

	c.logger.Info("unregistering node from peer discovery backend",
		zap.String("backend", c.cfg.Backend),
		zap.String("node", c.cfg.NodeName),
	)
	if err := c.backend.Unregister(ctx); err != nil {
		c.logger.Error("node unregistration failed, continuing shutdown",
			zap.String("backend", c.cfg.Backend),
			zap.Error(err),
		)
		c.metrics.RecordRegistration("unregister", "failed")
		return nil
	}
	c.metrics.RecordRegistration("unregister", "ok")
	return nil
}
