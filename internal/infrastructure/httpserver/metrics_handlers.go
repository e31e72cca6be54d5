package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LogMetricsInitialization logs that metrics have been initialized
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"http_requests_total":                 "Counter for HTTP requests by method, endpoint, status",
			"http_request_duration":               "Histogram for HTTP request duration by method, endpoint",
			"storefront_cache_lookups_total":      "Counter for cache reads by cache, status",
			"storefront_cache_store_errors_total": "Counter for failed store operations by cache, op",
			"metrics_endpoint":                    "/metrics",
		}).Debug("Available Prometheus metrics")
	}
}

func (s *Server) metricsEndpoint(c echo.Context) error {
	promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(c.Response(), c.Request())
	return nil
}
