package cluster

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ShutdownManager handles the graceful shutdown sequence for a node: stop
// accepting requests, withdraw the node's registration from the discovery
// backend, flush logs.
type ShutdownManager struct {
	clusterManager *ClusterManagerImpl
	server         *http.Server
	logger         *zap.Logger
	timeout        time.Duration
	mu             sync.Mutex
	isShuttingDown bool
}

// NewShutdownManager creates a new ShutdownManager instance
func NewShutdownManager(clusterManager *ClusterManagerImpl, server *http.Server, logger *zap.Logger, timeout time.Duration) *ShutdownManager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &ShutdownManager{
		clusterManager: clusterManager,
		server:         server,
		logger:         logger,
		timeout:        timeout,
	}
}

// Shutdown performs a graceful shutdown of the node
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	if sm.isShuttingDown {
		sm.mu.Unlock()
		return fmt.Errorf("shutdown already in progress")
	}
	sm.isShuttingDown = true
	sm.mu.Unlock()

	sm.logger.Info("starting graceful shutdown sequence")

	ctx, cancel := context.WithTimeout(ctx, sm.timeout)
	defer cancel()

	var errs error

	// Step 1: Stop accepting new requests
	if sm.server != nil {
		sm.logger.Info("stopping HTTP server, no longer accepting new requests")
		if err := sm.server.Shutdown(ctx); err != nil {
			sm.logger.Error("error shutting down HTTP server", zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}

	// Step 2: Withdraw this node's registration. Fail-soft inside, so this
	// never contributes an error.
	sm.logger.Info("withdrawing node registration")
	if err := sm.clusterManager.Leave(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	// Step 3: Flush buffered log entries. Sync on stderr can fail on some
	// platforms; that is not worth failing shutdown over.
	_ = sm.logger.Sync()

	if errs != nil {
		return fmt.Errorf("shutdown completed with errors: %w", errs)
	}

	sm.logger.Info("graceful shutdown completed")
	return nil
}
