package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	OrdersPosted     *prometheus.CounterVec
	OrderRevenue     *prometheus.CounterVec
	OrdersCancelled  prometheus.Counter
	OrderRejections  *prometheus.CounterVec
	CleanupDeleted   *prometheus.CounterVec
	LoginsTotal      *prometheus.CounterVec
	UploadsTotal     *prometheus.CounterVec
	ReportsGenerated *prometheus.CounterVec
}

// New registers all collectors on a fresh registry (plus the Go and process collectors).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pos_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pos_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		OrdersPosted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_orders_posted_total",
				Help: "Total number of orders posted",
			},
			[]string{"payment_method"},
		),
		OrderRevenue: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_order_revenue_total",
				Help: "Sum of posted order totals in the smallest currency unit",
			},
			[]string{"payment_method"},
		),
		OrdersCancelled: f.NewCounter(
			prometheus.CounterOpts{
				Name: "pos_orders_cancelled_total",
				Help: "Total number of cancelled orders",
			},
		),
		OrderRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_order_rejections_total",
				Help: "Orders rejected before commit, by error kind",
			},
			[]string{"kind"},
		),
		CleanupDeleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_cleanup_deleted_rows_total",
				Help: "Rows removed by retention cleanup",
			},
			[]string{"type"},
		),
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		UploadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_uploads_total",
				Help: "Image uploads by content type",
			},
			[]string{"content_type"},
		),
		ReportsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_reports_generated_total",
				Help: "Sales reports generated by format",
			},
			[]string{"format"},
		),
	}
}

// --- Recording Methods ---
// All methods are no-ops on a nil *Metrics so services can run without metrics in tests.

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordOrderPosted(paymentMethod string, total int64) {
	if m == nil {
		return
	}
	m.OrdersPosted.WithLabelValues(paymentMethod).Inc()
	m.OrderRevenue.WithLabelValues(paymentMethod).Add(float64(total))
}

func (m *Metrics) RecordOrderRejected(kind string) {
	if m == nil {
		return
	}
	m.OrderRejections.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordOrderCancelled() {
	if m == nil {
		return
	}
	m.OrdersCancelled.Inc()
}

func (m *Metrics) RecordCleanup(cleanupType string, deleted int64) {
	if m == nil {
		return
	}
	m.CleanupDeleted.WithLabelValues(cleanupType).Add(float64(deleted))
}

func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordUpload(contentType string) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(contentType).Inc()
}

func (m *Metrics) RecordReport(format string) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(format).Inc()
}
