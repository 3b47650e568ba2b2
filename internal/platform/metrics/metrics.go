// Package metrics exposes Prometheus collectors for the records server.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the server's collectors around one registry so tests can
// construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	PatientsStored  prometheus.Gauge
	ImportsAccepted prometheus.Counter
	ImportsRejected prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "records_http_requests_total",
			Help: "HTTP requests by method and status.",
		}, []string{"method", "status"}),
		PatientsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "records_patients_stored",
			Help: "Number of patient records currently stored.",
		}),
		ImportsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "records_import_accepted_total",
			Help: "Patient records accepted by CSV import.",
		}),
		ImportsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "records_import_rejected_total",
			Help: "Patient records rejected by CSV import.",
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.PatientsStored, m.ImportsAccepted, m.ImportsRejected)
	return m
}

// Handler serves the exposition endpoint.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware counts completed requests.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			m.RequestsTotal.WithLabelValues(c.Request().Method, httpStatusLabel(status)).Inc()
			return err
		}
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
