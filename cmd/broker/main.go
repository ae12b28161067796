package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianmq/meridian/internal/api/rest"
	"github.com/meridianmq/meridian/internal/cluster"
	"github.com/meridianmq/meridian/internal/config"
	"github.com/meridianmq/meridian/internal/discovery"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	if err := config.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := config.GetLogger()
	defer config.Sync()

	logger.Info("booting broker node",
		zap.String("node", cfg.NodeName),
		zap.String("discovery_backend", cfg.Discovery.Backend),
	)

	// Resolve the discovery backend. An unknown name is a configuration
	// error and fatal at startup.
	backend, err := discovery.NewBackend(cfg.Discovery.Backend, &cfg.Discovery)
	if err != nil {
		logger.Fatal("failed to resolve discovery backend", zap.Error(err))
	}

	coordinator := discovery.NewCoordinator(&cfg.Discovery, backend, logger.Named("discovery"))

	self := cluster.Node{
		Name:   discovery.NodeName(cfg.NodeName),
		Type:   discovery.NodeType(cfg.Discovery.NodeType),
		Status: cluster.NodeStatusActive,
	}
	clusterManager := cluster.NewClusterManager(self, coordinator, logger.Named("cluster"))

	// Run the boot side of cluster join: discover peers, then register.
	// A malformed backend result is a contract violation and aborts boot.
	bootCtx := context.Background()
	if err := clusterManager.Bootstrap(bootCtx); err != nil {
		if errors.Is(err, discovery.ErrMalformedResult) {
			logger.Fatal("discovery backend violated its contract", zap.Error(err))
		}
		logger.Fatal("cluster bootstrap failed", zap.Error(err))
	}

	// Start the HTTP surface
	router := rest.NewRouter(clusterManager, logger.Named("http"))
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	shutdownMgr := cluster.NewShutdownManager(clusterManager, server, logger, cfg.ShutdownTimeout)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	logger.Info("broker node started", zap.String("address", addr))

	sig := <-signalCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := shutdownMgr.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("broker node shutdown completed")
}
