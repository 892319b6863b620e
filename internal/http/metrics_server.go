package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/pseudonymizer/internal/metrics"
)

// MetricsServer exposes the Prometheus scrape endpoint on its own port, away
// from the document API.
type MetricsServer struct {
	listener
}

// NewMetricsServer creates the scrape server. Only GET /metrics is routed.
// Scrapes are not request-logged.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))

	s := &MetricsServer{listener: newListener("metrics server", host, port, logger)}
	s.server.Handler = router
	return s
}

// Handler returns the scrape router.
func (s *MetricsServer) Handler() http.Handler {
	return s.server.Handler
}
