package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zamar",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zamar",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	checkoutSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zamar",
			Subsystem: "checkout",
			Name:      "sessions_created_total",
			Help:      "Checkout sessions created, by payment kind.",
		},
		[]string{"kind"},
	)

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zamar",
			Subsystem: "checkout",
			Name:      "webhook_events_total",
			Help:      "Payment webhook events, by type and result.",
		},
		[]string{"type", "result"},
	)

	commissionCents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zamar",
			Subsystem: "referral",
			Name:      "commission_cents_total",
			Help:      "Referral commission credited in minor units, by level.",
		},
		[]string{"level"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zamar",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache router lookups, by request kind and result.",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		checkoutSessions,
		webhookEvents,
		commissionCents,
		cacheLookups,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware records request count and latency labelled by the matched route
// pattern, so path parameters do not explode the label set.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func RecordCheckoutSession(kind string) {
	checkoutSessions.WithLabelValues(kind).Inc()
}

func RecordWebhookEvent(eventType, result string) {
	webhookEvents.WithLabelValues(eventType, result).Inc()
}

func RecordCommission(level int, amountCents int64) {
	if amountCents <= 0 {
		return
	}
	commissionCents.WithLabelValues(strconv.Itoa(level)).Add(float64(amountCents))
}

func RecordCacheLookup(kind, result string) {
	cacheLookups.WithLabelValues(kind, result).Inc()
}
