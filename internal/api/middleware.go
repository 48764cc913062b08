// internal/api/middleware.go
package api

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"chaysh/internal/common/logger"
	"chaysh/internal/common/metrics"
)

const HeaderRequestID = echo.HeaderXRequestID

// requestID propagates an incoming X-Request-ID or assigns a new one.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(HeaderRequestID, id)
			return next(c)
		}
	}
}

// requestLogger logs one line per request and counts it by route and status.
// Only the method, path, status and latency are logged, never request headers.
func requestLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

			fields := map[string]interface{}{
				"method":    c.Request().Method,
				"path":      c.Request().URL.Path,
				"status":    status,
				"latencyMs": time.Since(start).Milliseconds(),
				"requestId": c.Get("request_id"),
			}
			if status >= 500 {
				log.Error("request served", fields)
			} else {
				log.Debug("request served", fields)
			}
			return nil
		}
	}
}
