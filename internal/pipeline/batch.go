package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/ais-metocean-etl/internal/config"
	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
)

// Report summarises one batch run.
type Report struct {
	RunID        string              `json:"run_id"`
	Clean        domain.CleanStats   `json:"clean"`
	Completeness domain.Completeness `json:"completeness"`
	Duration     time.Duration       `json:"duration"`
}

// Job runs the batch ETL: load reference data and the AIS fact table, enrich
// every row, then write the result to each sink in turn.
type Job struct {
	manifest *config.Manifest
	clean    domain.CleanOptions
	workers  int
	sinks    []RecordSink
	ready    *Readiness
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu   sync.Mutex
	last *domain.Completeness
}

// NewJob creates a batch Job. ready may be nil.
func NewJob(m *config.Manifest, clean domain.CleanOptions, workers int, sinks []RecordSink, ready *Readiness, logger *slog.Logger, metrics *observability.Metrics) *Job {
	return &Job{
		manifest: m,
		clean:    clean,
		workers:  workers,
		sinks:    sinks,
		ready:    ready,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one batch run end to end.
func (j *Job) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString()}
	logger := j.logger.With("run_id", report.RunID)
	logger.Info("batch run started", "workers", j.workers, "sinks", len(j.sinks))
	j.metrics.PipelineRunning.Set(1)
	defer j.metrics.PipelineRunning.Set(0)

	ref, err := LoadReference(ctx, j.manifest, logger, j.metrics)
	if err != nil {
		return report, fmt.Errorf("load reference data: %w", err)
	}
	if j.ready != nil {
		j.ready.MarkReady()
	}

	facts, stats, err := LoadFacts(j.manifest, j.clean, logger, j.metrics)
	if err != nil {
		return report, fmt.Errorf("load facts: %w", err)
	}
	report.Clean = stats

	enriched, err := NewEnricher(ref, j.workers, logger, j.metrics).Enrich(ctx, facts)
	if err != nil {
		return report, fmt.Errorf("enrich: %w", err)
	}

	for _, sink := range j.sinks {
		if err := sink.WriteRecords(ctx, report.RunID, enriched); err != nil {
			return report, fmt.Errorf("write %s: %w", sink.Name(), err)
		}
		j.metrics.SinkWrites.WithLabelValues(sink.Name()).Add(float64(len(enriched)))
		logger.Info("sink written", "sink", sink.Name(), "rows", len(enriched))
	}

	report.Completeness = domain.Summarize(enriched)
	j.record(report.Completeness)
	report.Duration = time.Since(start)

	for _, f := range report.Completeness.Fields {
		logger.Info("field completeness",
			"field", f.Field,
			"matched", f.Matched,
			"percent", f.Percent,
			"mean", f.Mean,
			"std_dev", f.StdDev,
		)
	}
	logger.Info("batch run complete", "rows", report.Completeness.Rows, "duration", report.Duration)
	return report, nil
}

func (j *Job) record(c domain.Completeness) {
	pct := make(map[string]float64, len(c.Fields))
	for _, f := range c.Fields {
		pct[f.Field] = f.Percent
	}
	j.metrics.RecordCompleteness(pct)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.last = &c
}

// LastCompleteness returns the completeness of the most recent successful run.
func (j *Job) LastCompleteness() (domain.Completeness, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.last == nil {
		return domain.Completeness{}, false
	}
	return *j.last, true
}
