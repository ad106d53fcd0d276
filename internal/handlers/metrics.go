package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics serves the Prometheus default registry.
func Metrics() drift.HandlerFunc {
	h := promhttp.Handler()
	return func(c *drift.Context) {
		h.ServeHTTP(c.Response, c.Request)
		c.Abort()
	}
}
