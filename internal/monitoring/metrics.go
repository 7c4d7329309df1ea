package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	// Extraction metrics
	PagesExtracted  prometheus.Counter
	ExtractDuration prometheus.Histogram
	FieldsResolved  *prometheus.CounterVec
	FieldsEmpty     *prometheus.CounterVec

	// Batch metrics
	BatchJobsActive prometheus.Gauge
	BatchURLsTotal  *prometheus.CounterVec

	// Store metrics
	RecordsSaved prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundsift_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundsift_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		FetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundsift_fetches_total",
				Help: "Total number of page fetches",
			},
			[]string{"status"},
		),
		FetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fundsift_fetch_duration_seconds",
				Help:    "Page fetch duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),

		PagesExtracted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fundsift_pages_extracted_total",
				Help: "Total number of pages run through extraction",
			},
		),
		ExtractDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fundsift_extract_duration_seconds",
				Help:    "Full record extraction duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		FieldsResolved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundsift_fields_resolved_total",
				Help: "Fields resolved by extraction, labeled by field name",
			},
			[]string{"field"},
		),
		FieldsEmpty: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundsift_fields_empty_total",
				Help: "Fields left empty after all strategies were tried",
			},
			[]string{"field"},
		),

		BatchJobsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fundsift_batch_jobs_active",
				Help: "Number of batch jobs currently running",
			},
		),
		BatchURLsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundsift_batch_urls_total",
				Help: "Batch URLs processed, labeled by outcome",
			},
			[]string{"outcome"},
		),

		RecordsSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fundsift_records_saved_total",
				Help: "Total number of records written to the store",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fundsift_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFetch records one page fetch outcome
func (m *Metrics) RecordFetch(status string, duration time.Duration) {
	m.FetchesTotal.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// RecordExtraction records one full record extraction
func (m *Metrics) RecordExtraction(duration time.Duration) {
	m.PagesExtracted.Inc()
	m.ExtractDuration.Observe(duration.Seconds())
}

// RecordField records one field outcome
func (m *Metrics) RecordField(field string, resolved bool) {
	if resolved {
		m.FieldsResolved.WithLabelValues(field).Inc()
		return
	}
	m.FieldsEmpty.WithLabelValues(field).Inc()
}

// RecordBatchURL records one processed batch URL
func (m *Metrics) RecordBatchURL(outcome string) {
	m.BatchURLsTotal.WithLabelValues(outcome).Inc()
}

// IncRecordsSaved increments the saved records counter
func (m *Metrics) IncRecordsSaved() {
	m.RecordsSaved.Inc()
}
