package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// NotificationsEmitted counts notification records created by type.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_notifications_emitted_total",
		Help: "Total number of notification records emitted by type",
	}, []string{"type"})

	// DBQueryDuration observes database query latency by outcome.
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plume_db_query_duration_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
)

// InitMetrics sets up the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-metrics handler backed by prom.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
