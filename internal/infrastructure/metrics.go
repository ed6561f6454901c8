package infrastructure

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "olist"

// PipelineMetrics holds the Prometheus collectors describing one pipeline run.
// A batch run has no scrape endpoint, so the registry is written to a
// node_exporter textfile on request.
type PipelineMetrics struct {
	registry *prometheus.Registry

	RowsLoaded    *prometheus.GaugeVec
	OutputRows    prometheus.Gauge
	DroppedRows   *prometheus.GaugeVec
	UnmatchedKeys *prometheus.GaugeVec
	DuplicateKeys *prometheus.GaugeVec
	StepDuration  *prometheus.GaugeVec
	Runs          *prometheus.CounterVec
}

// NewPipelineMetrics creates the collectors on a private registry
func NewPipelineMetrics() *PipelineMetrics {
	m := &PipelineMetrics{
		registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "table_rows_loaded",
			Help:      "Rows read from each input table.",
		}, []string{"table"}),
		OutputRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "analytical_rows",
			Help:      "Rows in the analytical table produced by the last build.",
		}),
		DroppedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "dropped_rows",
			Help:      "Order-item rows removed by the final filter, by reason.",
		}, []string{"reason"}),
		UnmatchedKeys: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "unmatched_join_keys",
			Help:      "Rows whose key found no partner in a left join.",
		}, []string{"join"}),
		DuplicateKeys: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "duplicate_lookup_keys",
			Help:      "Lookup-table rows ignored because their key was already indexed.",
		}, []string{"table"}),
		StepDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of each pipeline step.",
		}, []string{"step"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.RowsLoaded,
		m.OutputRows,
		m.DroppedRows,
		m.UnmatchedKeys,
		m.DuplicateKeys,
		m.StepDuration,
		m.Runs,
	)
	return m
}

// Registry exposes the underlying registry as a Gatherer
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTable records the row count of a loaded table
func (m *PipelineMetrics) ObserveTable(table string, rows int) {
	m.RowsLoaded.WithLabelValues(table).Set(float64(rows))
}

// ObserveStep records how long a step took
func (m *PipelineMetrics) ObserveStep(step string, d time.Duration) {
	m.StepDuration.WithLabelValues(step).Set(d.Seconds())
}

// ObserveRun counts a finished run
func (m *PipelineMetrics) ObserveRun(status string) {
	m.Runs.WithLabelValues(status).Inc()
}

// ObserveCounts sets every label of vec from counts
func ObserveCounts(vec *prometheus.GaugeVec, counts map[string]int) {
	for label, n := range counts {
		vec.WithLabelValues(label).Set(float64(n))
	}
}

// WriteTextfile writes all metrics in the text exposition format to path
func (m *PipelineMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
