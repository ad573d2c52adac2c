package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wind_clean"

// Metrics holds the Prometheus counters and histograms for a cleaning run.
type Metrics struct {
	RowsRead     prometheus.Counter
	RowsAdmitted prometheus.Counter
	RowsRejected *prometheus.CounterVec // labels: reason={invalid_value,out_of_range}

	RunsTotal   *prometheus.CounterVec // labels: schema, outcome={success,error}
	RunDuration prometheus.Histogram
}

// NewMetrics creates all run metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.RowsRead,
		m.RowsAdmitted,
		m.RowsRejected,
		m.RunsTotal,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total source rows read.",
		}),
		RowsAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_admitted_total",
			Help:      "Total rows that passed validation and were written.",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Rows excluded by the validator, by reason.",
		}, []string{"reason"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Cleaning runs by schema and outcome.",
		}, []string{"schema", "outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-clean-load run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// WriteTextfile dumps everything gathered by g to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
