package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogging logs every request after it completes, at warn level for server errors.
func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			// commit the error response here so the logged status is final
			if err := next(c); err != nil {
				c.Error(err)
			}
			if m.logger == nil {
				return nil
			}
			status := c.Response().Status
			entry := m.logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     status,
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"x_cache":    c.Response().Header().Get("X-Cache"),
			})
			if status >= 500 {
				entry.Warn("request failed")
			} else {
				entry.Debug("request served")
			}
			return nil
		}
	}
}
