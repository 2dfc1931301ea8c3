// Package metrics holds the prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the service collectors on their own registry.
type Metrics struct {
	Registry      *prometheus.Registry
	FilterQueries prometheus.Counter
	FilterResults prometheus.Histogram
	Exports       *prometheus.CounterVec
	ExportBytes   prometheus.Histogram
	Submissions   *prometheus.CounterVec
}

// Outcome labels for Exports and Submissions.
const (
	OutcomeBuilt         = "built"
	OutcomeCached        = "cached"
	OutcomeEmpty         = "empty"
	OutcomeError         = "error"
	OutcomeRelayed       = "relayed"
	OutcomeInvalid       = "invalid"
	OutcomeNotConfigured = "not_configured"
	OutcomeTimeout       = "timeout"
	OutcomeTransport     = "transport_error"
)

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FilterQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cuticulome",
			Name:      "filter_queries_total",
			Help:      "Filtered record listings served.",
		}),
		FilterResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cuticulome",
			Name:      "filter_result_records",
			Help:      "Records returned per filtered listing.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cuticulome",
			Name:      "exports_total",
			Help:      "Export requests by outcome.",
		}, []string{"outcome"}),
		ExportBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cuticulome",
			Name:      "export_archive_bytes",
			Help:      "Size of built export archives.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cuticulome",
			Name:      "submissions_total",
			Help:      "Submission attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(
		m.FilterQueries,
		m.FilterResults,
		m.Exports,
		m.ExportBytes,
		m.Submissions,
		collectors.NewGoCollector(),
	)
	return m
}
