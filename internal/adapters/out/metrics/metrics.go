// Package metrics exposes Prometheus instrumentation for the HTTP API, the
// audit event publisher and the overdue job.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequestDuration *prometheus.HistogramVec
	AuditEvents         *prometheus.CounterVec
	PublishFailures     prometheus.Counter
	OverdueFlagged      prometheus.Counter
}

// New registers the collectors on reg. Passing prometheus.NewRegistry()
// keeps tests independent of the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path", "status"},
		),
		AuditEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "milestone_audit_events_total",
				Help: "Audit entries published, by action",
			},
			[]string{"action"},
		),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "milestone_audit_publish_failures_total",
			Help: "Batches of audit entries that could not be published",
		}),
		OverdueFlagged: factory.NewCounter(prometheus.CounterOpts{
			Name: "milestone_overdue_flagged_total",
			Help: "Milestones flagged as overdue by the scan job",
		}),
	}
}

// RecordHTTPRequestDuration observes one request.
func (m *Metrics) RecordHTTPRequestDuration(method, path string, status int, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// AddOverdueFlagged counts milestones flagged by one scan.
func (m *Metrics) AddOverdueFlagged(n int) {
	if n > 0 {
		m.OverdueFlagged.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records the duration of every request by route template, so
// /orders/:id is one series regardless of the identifier.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.RecordHTTPRequestDuration(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}

// InstrumentPublisher counts entries handed to next by action and failed
// publishes.
func InstrumentPublisher(next ports.EventPublisher, m *Metrics) ports.EventPublisher {
	return &instrumentedPublisher{next: next, metrics: m}
}

type instrumentedPublisher struct {
	next    ports.EventPublisher
	metrics *Metrics
}

func (p *instrumentedPublisher) Publish(ctx context.Context, entries []milestone.LogEntry) error {
	if err := p.next.Publish(ctx, entries); err != nil {
		p.metrics.PublishFailures.Inc()
		return err
	}
	for _, e := range entries {
		p.metrics.AuditEvents.WithLabelValues(e.Action().String()).Inc()
	}
	return nil
}
