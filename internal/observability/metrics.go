package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch/build pipeline.
type Metrics struct {
	RefreshRunning prometheus.Gauge
	BuildErrors    prometheus.Counter

	// Upstream fetch metrics.
	FetchRequests    *prometheus.CounterVec   // labels: source={openmeteo,inaturalist}, outcome={success,error}
	FetchAPIDuration *prometheus.HistogramVec // labels: source

	// Cache tier metrics.
	CacheLookups *prometheus.CounterVec // labels: tier, result={fresh,stale,miss}
	StoreWrites  *prometheus.CounterVec // labels: tier

	// Derived-artifact build metrics.
	BuildDuration prometheus.Histogram
	SpeciesCount  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flightwatch",
			Name:      "refresh_running",
			Help:      "1 while a refresh cycle is active, 0 otherwise.",
		}),
		BuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flightwatch",
			Name:      "build_errors_total",
			Help:      "Total failures while building derived artifacts.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flightwatch",
			Name:      "fetch_requests_total",
			Help:      "Upstream API fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flightwatch",
			Name:      "fetch_api_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flightwatch",
			Name:      "cache_lookups_total",
			Help:      "Cache freshness checks by tier and result.",
		}, []string{"tier", "result"}),
		StoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flightwatch",
			Name:      "store_writes_total",
			Help:      "Documents written to the store by tier.",
		}, []string{"tier"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flightwatch",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete derived-artifact build.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SpeciesCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flightwatch",
			Name:      "species_profiles",
			Help:      "Species profiles produced by the latest build.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshRunning,
		m.BuildErrors,
		m.FetchRequests,
		m.FetchAPIDuration,
		m.CacheLookups,
		m.StoreWrites,
		m.BuildDuration,
		m.SpeciesCount,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flightwatch", Name: "refresh_running"}),
		BuildErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flightwatch", Name: "build_errors_total"}),
		FetchRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flightwatch", Name: "fetch_requests_total"}, []string{"source", "outcome"}),
		FetchAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "flightwatch", Name: "fetch_api_duration_seconds"}, []string{"source"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flightwatch", Name: "cache_lookups_total"}, []string{"tier", "result"}),
		StoreWrites:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flightwatch", Name: "store_writes_total"}, []string{"tier"}),
		BuildDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flightwatch", Name: "build_duration_seconds"}),
		SpeciesCount:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flightwatch", Name: "species_profiles"}),
	}
}
