// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesFetchedTotal    *prometheus.CounterVec
	pageFaultsTotal      *prometheus.CounterVec
	fetchRetriesTotal    prometheus.Counter
	recordsMergedTotal   *prometheus.CounterVec
	classificationsTotal *prometheus.CounterVec
	runsTotal            *prometheus.CounterVec
	runDurationSeconds   prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors. It is safe to call this
// function multiple times.
func Init() {
	once.Do(func() {
		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ayudas_pages_fetched_total",
				Help: "Total number of listing pages fetched, labeled by source.",
			},
			[]string{"source"},
		)

		pageFaultsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ayudas_page_faults_total",
				Help: "Total number of pages skipped after exhausting retries, labeled by source.",
			},
			[]string{"source"},
		)

		fetchRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ayudas_fetch_retries_total",
				Help: "Total number of fetch retry attempts.",
			},
		)

		recordsMergedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ayudas_records_merged_total",
				Help: "Total merged records, labeled by outcome (inserted, updated, unchanged).",
			},
			[]string{"outcome"},
		)

		classificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ayudas_classifications_total",
				Help: "Total classifications performed, labeled by source strategy.",
			},
			[]string{"strategy"},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ayudas_runs_total",
				Help: "Total pipeline runs, labeled by status.",
			},
			[]string{"status"},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ayudas_run_duration_seconds",
				Help:    "Histogram of end-to-end pipeline run durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage increments the fetched-pages counter for a source.
func ObservePage(source string) {
	if pagesFetchedTotal != nil {
		pagesFetchedTotal.WithLabelValues(source).Inc()
	}
}

// ObservePageFault increments the skipped-pages counter for a source.
func ObservePageFault(source string) {
	if pageFaultsTotal != nil {
		pageFaultsTotal.WithLabelValues(source).Inc()
	}
}

// ObserveRetry increments the fetch retry counter.
func ObserveRetry() {
	if fetchRetriesTotal != nil {
		fetchRetriesTotal.Inc()
	}
}

// ObserveMerge records merge outcome counts in one call.
func ObserveMerge(inserted, updated, unchanged int) {
	if recordsMergedTotal == nil {
		return
	}
	recordsMergedTotal.WithLabelValues("inserted").Add(float64(inserted))
	recordsMergedTotal.WithLabelValues("updated").Add(float64(updated))
	recordsMergedTotal.WithLabelValues("unchanged").Add(float64(unchanged))
}

// ObserveClassification increments the classification counter for a strategy.
func ObserveClassification(strategy string) {
	if classificationsTotal != nil {
		classificationsTotal.WithLabelValues(strategy).Inc()
	}
}

// ObserveRun records a finished pipeline run.
func ObserveRun(status string, seconds float64) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(status).Inc()
	runDurationSeconds.Observe(seconds)
}
