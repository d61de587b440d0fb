package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ais_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Enrichment metrics.
	RowsRead           *prometheus.CounterVec // labels: table={dynamic,static,ocean,weather,stations}
	RowsEnriched       prometheus.Counter
	MatchOutcomes      *prometheus.CounterVec // labels: source={ocean,weather}, outcome={matched,empty,no_partition,no_match,error}
	FieldCompleteness  *prometheus.GaugeVec   // labels: field; percentage of non-null rows in the last run
	EnrichmentDuration prometheus.Histogram
	MatchCache         *prometheus.CounterVec // labels: source={ocean,weather}, result={hit,miss}
	SinkWrites         *prometheus.CounterVec // labels: sink={csv,parquet,sqlite,kafka}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total source messages that could not be parsed or validated.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from input tables.",
		}, []string{"table"}),
		RowsEnriched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_enriched_total",
			Help:      "AIS rows that went through enrichment.",
		}),
		MatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_outcomes_total",
			Help:      "Reference matches by source and outcome.",
		}, []string{"source", "outcome"}),
		FieldCompleteness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "field_completeness_percent",
			Help:      "Share of non-null values per enriched field in the last batch run.",
		}, []string{"field"}),
		EnrichmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrichment_duration_seconds",
			Help:      "Duration of one Enrich call.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		}),
		MatchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_cache_total",
			Help:      "Match cache lookups by source and result.",
		}, []string{"source", "result"}),
		SinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_rows_written_total",
			Help:      "Enriched rows written per sink.",
		}, []string{"sink"}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.RowsRead,
		m.RowsEnriched,
		m.MatchOutcomes,
		m.FieldCompleteness,
		m.EnrichmentDuration,
		m.MatchCache,
		m.SinkWrites,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_processing_duration_seconds"}),
		RowsRead:                prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "rows_read_total"}, []string{"table"}),
		RowsEnriched:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rows_enriched_total"}),
		MatchOutcomes:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "match_outcomes_total"}, []string{"source", "outcome"}),
		FieldCompleteness:       prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "field_completeness_percent"}, []string{"field"}),
		EnrichmentDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "enrichment_duration_seconds"}),
		MatchCache:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "match_cache_total"}, []string{"source", "result"}),
		SinkWrites:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "sink_rows_written_total"}, []string{"sink"}),
	}
}

// RecordCompleteness publishes the per-field completeness of a run.
func (m *Metrics) RecordCompleteness(fields map[string]float64) {
	for field, pct := range fields {
		m.FieldCompleteness.WithLabelValues(field).Set(pct)
	}
}
