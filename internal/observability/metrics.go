package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Load metrics.
	RowsLoaded      *prometheus.GaugeVec   // labels: dataset
	RowsDropped     *prometheus.CounterVec // labels: dataset
	StoreReady      prometheus.Gauge
	RecordsExported *prometheus.CounterVec // labels: dataset
	ExportErrors    prometheus.Counter

	// Query metrics.
	ViewsBuilt        *prometheus.CounterVec   // labels: dataset
	ViewErrors        prometheus.Counter
	ViewRecords       *prometheus.HistogramVec // labels: dataset
	ViewBuildDuration *prometheus.HistogramVec // labels: dataset
	ViewCache         *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.StoreReady,
		m.RecordsExported,
		m.ExportErrors,
		m.ViewsBuilt,
		m.ViewErrors,
		m.ViewRecords,
		m.ViewBuildDuration,
		m.ViewCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

// NewUnregisteredMetrics creates Metrics with help text that are not
// registered anywhere. One-shot commands use it since nothing scrapes them.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics(true)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "crisis",
			Name:      "rows_loaded",
			Help:      help("Normalized records held per dataset."),
		}, []string{"dataset"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Name:      "rows_dropped_total",
			Help:      help("Raw rows discarded during normalization because of unparseable timestamps."),
		}, []string{"dataset"}),
		StoreReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crisis",
			Name:      "store_ready",
			Help:      help("1 once the base tables are loaded, 0 before."),
		}),
		RecordsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Name:      "records_exported_total",
			Help:      help("Normalized records published to the export topic."),
		}, []string{"dataset"}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis",
			Name:      "export_errors_total",
			Help:      help("Failed export batch attempts."),
		}),
		ViewsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Name:      "views_built_total",
			Help:      help("Views assembled per dataset."),
		}, []string{"dataset"}),
		ViewErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crisis",
			Name:      "view_errors_total",
			Help:      help("View requests rejected, e.g. for an unknown dataset."),
		}),
		ViewRecords: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crisis",
			Name:      "view_records",
			Help:      help("Records returned per view."),
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"dataset"}),
		ViewBuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crisis",
			Name:      "view_build_duration_seconds",
			Help:      help("Duration of filter and summarize for one view."),
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"dataset"}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crisis",
			Name:      "view_cache_total",
			Help:      help("View cache lookups by result."),
		}, []string{"result"}),
	}
}
