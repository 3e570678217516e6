package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests by method, route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
)

func Init() {
	prometheus.MustRegister(RequestDuration, RequestsTotal)
}

// Middleware records every request under its route pattern, not the raw
// path, to keep label cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			RequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}
