package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
)

// RequestIDKey is the request ID header name
const RequestIDKey = "X-Request-ID"

// Logger returns request logging middleware
func Logger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())

		// Skip logging for health check paths
		skipLogging := path == "/health/live" || path == "/health/ready"

		// Generate or propagate the request ID
		requestID := string(c.Request.Header.Peek(RequestIDKey))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response.Header.Set(RequestIDKey, requestID)

		var logger *slog.Logger
		if !skipLogging {
			logger = slog.Default().With(
				"request_id", requestID,
				"method", string(c.Method()),
				"path", path,
				"client_ip", c.ClientIP(),
			)
			logger.Info("request started")
		}

		c.Next(ctx)

		if !skipLogging {
			latency := time.Since(start)
			statusCode := c.Response.StatusCode()

			logger = logger.With(
				"status", statusCode,
				"latency", latency.String(),
				"latency_ms", latency.Milliseconds(),
			)

			if statusCode >= 500 {
				logger.Error("request completed with server error")
			} else if statusCode >= 400 {
				logger.Warn("request completed with client error")
			} else {
				logger.Info("request completed successfully")
			}
		}
	}
}

// GetRequestID returns the request ID assigned by Logger
func GetRequestID(c *app.RequestContext) string {
	return string(c.Response.Header.Peek(RequestIDKey))
}
