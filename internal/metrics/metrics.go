// Package metrics exposes Prometheus collectors for the scraper service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons recorded by the listing extractor and the source driver.
const (
	DropRuleRejected    = "rule_rejected"
	DropPriceUnparsable = "price_unparsable"
	DropPriceTooLow     = "price_too_low"
	DropProductMiss     = "product_miss"
	DropMissingFragment = "missing_fragment"
)

var (
	scraperRecordsTotal        *prometheus.CounterVec
	scraperRecordsDroppedTotal *prometheus.CounterVec
	scraperFetchFailuresTotal  *prometheus.CounterVec
	publisherMessagesTotal     *prometheus.CounterVec
	publisherFailuresTotal     *prometheus.CounterVec
	scraperRunsTotal           *prometheus.CounterVec
	scraperRunDurationSeconds  *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scraperRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_records_total",
				Help: "Total number of normalized price records produced, labeled by source.",
			},
			[]string{"source"},
		)

		scraperRecordsDroppedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_records_dropped_total",
				Help: "Total number of raw listings dropped before publish, labeled by source and reason.",
			},
			[]string{"source", "reason"},
		)

		scraperFetchFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_fetch_failures_total",
				Help: "Total number of failed listing-page fetches, labeled by source.",
			},
			[]string{"source"},
		)

		publisherMessagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "publisher_messages_total",
				Help: "Total number of envelopes handed to the queue transport, labeled by source.",
			},
			[]string{"source"},
		)

		publisherFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "publisher_failures_total",
				Help: "Total number of publish attempts the transport rejected, labeled by source.",
			},
			[]string{"source"},
		)

		scraperRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_runs_total",
				Help: "Total number of adapter executions, labeled by adapter and status.",
			},
			[]string{"adapter", "status"},
		)

		scraperRunDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scraper_run_duration_seconds",
				Help:    "Histogram of adapter run durations.",
				Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"adapter"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRecord counts one normalized record for a source.
func ObserveRecord(source string) {
	Init()
	scraperRecordsTotal.WithLabelValues(source).Inc()
}

// ObserveDrop counts one dropped listing for a source and reason.
func ObserveDrop(source, reason string) {
	Init()
	scraperRecordsDroppedTotal.WithLabelValues(source, reason).Inc()
}

// ObserveFetchFailure counts one failed page fetch.
func ObserveFetchFailure(source string) {
	Init()
	scraperFetchFailuresTotal.WithLabelValues(source).Inc()
}

// ObservePublish counts one publish attempt and whether it succeeded.
func ObservePublish(source string, ok bool) {
	Init()
	if ok {
		publisherMessagesTotal.WithLabelValues(source).Inc()
		return
	}
	publisherFailuresTotal.WithLabelValues(source).Inc()
}

// ObserveRun records an adapter execution outcome and duration.
func ObserveRun(adapter, status string, elapsed time.Duration) {
	Init()
	scraperRunsTotal.WithLabelValues(adapter, status).Inc()
	scraperRunDurationSeconds.WithLabelValues(adapter).Observe(elapsed.Seconds())
}
