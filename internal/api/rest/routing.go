package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meridianmq/meridian/internal/cluster"
	"github.com/meridianmq/meridian/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

// NewRouter builds the node's HTTP surface: cluster membership endpoints,
// health, and Prometheus metrics, with logging, timeout and metrics
// middleware applied.
func NewRouter(cm cluster.ClusterManager, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	clusterHandler := NewClusterHandler(cm)
	clusterHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.Use(LoggingMiddleware(logger))
	router.Use(TimeoutMiddleware(defaultRequestTimeout))
	router.Use(metrics.MetricsMiddleware)

	return router
}
