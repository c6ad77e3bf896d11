// Package metrics exposes Prometheus counters for uploads, analyses and exports.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "battery_savings_"

	resultSuccess = "success"
	resultError   = "error"
)

// Analysis results.
const (
	ResultCompleted = "completed"
	ResultEmpty     = "empty"
	ResultInvalid   = "invalid"
)

var (
	registerOnce sync.Once

	uploadsTotal      *prometheus.CounterVec
	uploadSkippedRows prometheus.Counter
	uploadQuarters    prometheus.Histogram

	analysisTotal   *prometheus.CounterVec
	analysisLatency *prometheus.HistogramVec

	exportTotal *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Observations made
// before Init are dropped.
func Init() {
	registerOnce.Do(func() {
		uploadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "uploads_total",
				Help: "Total meter file uploads by format and result",
			},
			[]string{"format", "result"},
		)
		uploadSkippedRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "upload_skipped_rows_total",
				Help: "Total meter rows skipped for an unreadable date",
			},
		)
		uploadQuarters = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upload_quarters",
				Help:    "Quarter-hours per accepted upload",
				Buckets: prometheus.ExponentialBuckets(96, 4, 6),
			},
		)

		analysisTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analysis_total",
				Help: "Total analysis runs by result",
			},
			[]string{"result"},
		)
		analysisLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "analysis_latency_seconds",
				Help:    "Analysis latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			uploadsTotal,
			uploadSkippedRows,
			uploadQuarters,
			analysisTotal,
			analysisLatency,
			exportTotal,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpload records an ingested meter file. Skipped rows count for failed
// uploads too; quarters only for accepted ones.
func ObserveUpload(format string, err error, quarters, skipped int) {
	if format == "" {
		format = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if uploadsTotal != nil {
		uploadsTotal.WithLabelValues(format, result).Inc()
	}
	// rejected uploads can consist of nothing but skipped rows
	if uploadSkippedRows != nil && skipped > 0 {
		uploadSkippedRows.Add(float64(skipped))
	}
	if err != nil {
		return
	}
	if uploadQuarters != nil {
		uploadQuarters.Observe(float64(quarters))
	}
}

// ObserveAnalysis records analysis latency and result.
func ObserveAnalysis(result string, duration time.Duration) {
	if result == "" {
		result = ResultCompleted
	}
	if analysisTotal != nil {
		analysisTotal.WithLabelValues(result).Inc()
	}
	if analysisLatency != nil {
		analysisLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncExport counts a report export.
func IncExport(format string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
