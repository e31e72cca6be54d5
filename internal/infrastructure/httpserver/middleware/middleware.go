package middleware

import (
	"github.com/sirupsen/logrus"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
	"github.com/cellarhouse/storefront-cache/internal/infrastructure/metrics"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT     *JWTMiddleware
	Logging *LoggingMiddleware
	Metrics *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(authenticator ports.MemberAuthenticator, logger *logrus.Logger, httpMetrics *metrics.HTTPMetrics) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:     NewJWTMiddleware(authenticator, logger),
		Logging: NewLoggingMiddleware(logger),
		Metrics: NewMetricsMiddleware(httpMetrics.RequestsTotal, httpMetrics.RequestDuration),
	}
}
