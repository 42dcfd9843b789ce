package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Middleware records request counts and latency per route and logs slow or
// failed requests.
func Middleware(logger zerolog.Logger) fiber.Handler {
	requestLogger := logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		method := c.Method()
		elapsed := time.Since(start)

		HTTPRequests().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())

		if status >= fiber.StatusInternalServerError {
			requestLogger.Error().
				Str("method", method).
				Str("route", route).
				Int("status", status).
				Dur("elapsed", elapsed).
				Msg("request failed")
		}

		return err
	}
}

// MetricsHandler exposes the Prometheus scrape endpoint as a fiber handler.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
