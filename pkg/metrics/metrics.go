// Package metrics tracks dataset fetch and dashboard refresh statistics, both
// as an in-process snapshot and as Prometheus collectors.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks various metrics for the dashboard
type Metrics struct {
	FetchCount        uint64
	ErrorCount        uint64
	RefreshCount      uint64
	TotalFetchTime    time.Duration
	AverageFetchTime  time.Duration
	LastFetchTime     time.Time
	ConcurrentFetches int32
}

var (
	mu      sync.Mutex
	metrics = &Metrics{}

	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ticketdash",
		Name:      "dataset_fetch_duration_seconds",
		Help:      "Time taken to fetch and decode one analytics dataset.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"dataset"})

	fetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketdash",
		Name:      "dataset_fetch_errors_total",
		Help:      "Dataset fetches that failed, by dataset.",
	}, []string{"dataset"})

	refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketdash",
		Name:      "refreshes_total",
		Help:      "Completed dashboard refreshes, by outcome.",
	}, []string{"outcome"})

	inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ticketdash",
		Name:      "dataset_fetches_in_flight",
		Help:      "Dataset fetches currently running.",
	})
)

// Register adds the dashboard collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{fetchDuration, fetchErrors, refreshes, inFlight} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordFetch records metrics for a completed dataset fetch
func RecordFetch(dataset string, duration time.Duration, err error) {
	if err != nil {
		fetchErrors.WithLabelValues(dataset).Inc()
	}
	fetchDuration.WithLabelValues(dataset).Observe(duration.Seconds())

	// Held throughout so ResetMetrics cannot swap the snapshot mid-update.
	mu.Lock()
	defer mu.Unlock()
	atomic.AddUint64(&metrics.FetchCount, 1)
	if err != nil {
		atomic.AddUint64(&metrics.ErrorCount, 1)
	}
	metrics.TotalFetchTime += duration
	metrics.AverageFetchTime = metrics.TotalFetchTime / time.Duration(atomic.LoadUint64(&metrics.FetchCount))
	metrics.LastFetchTime = time.Now()
}

// RecordRefresh records a completed refresh; failed is the number of datasets
// that could not be refreshed.
func RecordRefresh(failed int) {
	mu.Lock()
	atomic.AddUint64(&metrics.RefreshCount, 1)
	mu.Unlock()
	switch {
	case failed == 0:
		refreshes.WithLabelValues("ok").Inc()
	default:
		refreshes.WithLabelValues("partial").Inc()
	}
}

// IncrementConcurrentFetches increments the count of concurrent fetches
func IncrementConcurrentFetches() {
	mu.Lock()
	atomic.AddInt32(&metrics.ConcurrentFetches, 1)
	mu.Unlock()
	inFlight.Inc()
}

// DecrementConcurrentFetches decrements the count of concurrent fetches
func DecrementConcurrentFetches() {
	mu.Lock()
	atomic.AddInt32(&metrics.ConcurrentFetches, -1)
	mu.Unlock()
	inFlight.Dec()
}

// GetMetrics returns a snapshot of the current metrics
func GetMetrics() Metrics {
	mu.Lock()
	defer mu.Unlock()
	return Metrics{
		FetchCount:        atomic.LoadUint64(&metrics.FetchCount),
		ErrorCount:        atomic.LoadUint64(&metrics.ErrorCount),
		RefreshCount:      atomic.LoadUint64(&metrics.RefreshCount),
		TotalFetchTime:    metrics.TotalFetchTime,
		AverageFetchTime:  metrics.AverageFetchTime,
		LastFetchTime:     metrics.LastFetchTime,
		ConcurrentFetches: atomic.LoadInt32(&metrics.ConcurrentFetches),
	}
}

// ResetMetrics clears the in-process snapshot. Prometheus collectors are
// cumulative and are not reset.
func ResetMetrics() {
	mu.Lock()
	defer mu.Unlock()
	metrics = &Metrics{}
}
