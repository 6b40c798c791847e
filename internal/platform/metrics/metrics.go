// Package metrics provides Prometheus metrics for the hospital
// administration service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	AppointmentsCreated prometheus.Counter
	AppointmentsUpdated prometheus.Counter
	AppointmentsDeleted prometheus.Counter
	PDFsRendered        prometheus.Counter
	EmailsSent          prometheus.Counter
	EmailsFailed        prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Total appointments created",
		}),
		AppointmentsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appointments_updated_total",
			Help: "Total appointments updated",
		}),
		AppointmentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appointments_deleted_total",
			Help: "Total appointments soft-deleted",
		}),
		PDFsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prescription_pdfs_rendered_total",
			Help: "Total prescription PDFs rendered",
		}),
		EmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prescription_emails_sent_total",
			Help: "Total prescription emails dispatched",
		}),
		EmailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prescription_emails_failed_total",
			Help: "Total prescription email dispatch failures",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration by method and status",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "status"}),
	}

	prometheus.MustRegister(
		m.AppointmentsCreated,
		m.AppointmentsUpdated,
		m.AppointmentsDeleted,
		m.PDFsRendered,
		m.EmailsSent,
		m.EmailsFailed,
		m.RequestDuration,
	)

	return m
}

// Middleware records request duration per method and status. It runs before
// echo's error handler, so failed requests resolve their status from the
// returned *echo.HTTPError rather than the not-yet-written response.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			m.RequestDuration.
				WithLabelValues(c.Request().Method, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
