package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forcing-driven stepping loop.
type Metrics struct {
	ForcingsConsumed prometheus.Counter
	ResultsPublished prometheus.Counter
	ForcingErrors    prometheus.Counter
	RunnerRunning    prometheus.Gauge

	// Batch stepping metrics.
	BatchSize    prometheus.Histogram
	StepDuration prometheus.Histogram

	// Current model state, exported so dashboards can track a run without
	// scraping the sink topic.
	ModelTime          prometheus.Gauge
	FrostNumberAir     prometheus.Gauge
	FrostNumberSurface prometheus.Gauge
	FrostNumberStefan  prometheus.Gauge
}

// NewMetrics creates and registers all runner metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ForcingsConsumed,
		m.ResultsPublished,
		m.ForcingErrors,
		m.RunnerRunning,
		m.BatchSize,
		m.StepDuration,
		m.ModelTime,
		m.FrostNumberAir,
		m.FrostNumberSurface,
		m.FrostNumberStefan,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ForcingsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frostnumber",
			Name:      "forcings_consumed_total",
			Help:      "Total forcing records read from the source topic.",
		}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frostnumber",
			Name:      "results_published_total",
			Help:      "Total step results written to the sink topic.",
		}),
		ForcingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frostnumber",
			Name:      "forcing_errors_total",
			Help:      "Total forcing records skipped as malformed.",
		}),
		RunnerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostnumber",
			Name:      "runner_running",
			Help:      "1 when the stepping loop is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "frostnumber",
			Name:      "batch_size",
			Help:      "Number of forcing records per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "frostnumber",
			Name:      "step_duration_seconds",
			Help:      "Duration of a complete extract-step-publish batch cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ModelTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostnumber",
			Name:      "model_time_years",
			Help:      "Current model time in years since initialization.",
		}),
		FrostNumberAir: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostnumber",
			Name:      "air",
			Help:      "Air frost number from the most recent step.",
		}),
		FrostNumberSurface: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostnumber",
			Name:      "surface",
			Help:      "Surface frost number from the most recent step.",
		}),
		FrostNumberStefan: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostnumber",
			Name:      "stefan",
			Help:      "Stefan frost number from the most recent step.",
		}),
	}
}
