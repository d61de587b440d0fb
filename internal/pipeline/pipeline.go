package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into an output event. An error marks the
// message as poison: it is skipped and its offset committed.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline orchestrates the streaming extract-transform-load loop: AIS
// reports in from the source topic, enriched records out to the sink topic.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	flowing     atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Flowing reports whether at least one batch has reached the sink.
func (p *Pipeline) Flowing() bool {
	return p.flowing.Load()
}

// Run executes the batch ETL loop until the context is cancelled. Extract and
// load failures are retried with exponential backoff; offsets are committed
// only after a successful load, so a failed batch is redelivered.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("stream pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	retry := newBackoff(200*time.Millisecond, 5*time.Second)
	for ctx.Err() == nil {
		ok, err := p.processBatch(ctx)
		if err == nil {
			if ok {
				retry.reset()
			}
			continue
		}
		if ctx.Err() != nil {
			break
		}
		p.logger.Error("stream batch failed", "error", err, "retry_in", retry.current)
		if !retry.wait(ctx) {
			break
		}
	}
	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// processBatch runs one extract-transform-load cycle. It reports whether any
// message was extracted.
func (p *Pipeline) processBatch(ctx context.Context) (bool, error) {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return false, err
	}
	if len(rawBatch) == 0 {
		return false, nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))

	outBatch := make([]domain.OutputEvent, 0, len(rawBatch))
	loadedRaws := make([]domain.RawEvent, 0, len(rawBatch))
	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("invalid AIS report, skipping message",
				"error", err,
				"key", string(raw.Key),
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		outBatch = append(outBatch, out)
		loadedRaws = append(loadedRaws, raw)
	}

	if len(outBatch) == 0 {
		return true, nil
	}
	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		return true, err
	}
	p.metrics.MessagesProduced.Add(float64(len(outBatch)))
	for _, raw := range loadedRaws {
		p.commit(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.flowing.Store(true)
	return true, nil
}

// commit commits the message offset if a commit function is available.
func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// backoff is a doubling retry delay capped at limit.
type backoff struct {
	initial, limit, current time.Duration
}

func newBackoff(initial, limit time.Duration) *backoff {
	return &backoff{initial: initial, limit: limit, current: initial}
}

func (b *backoff) reset() { b.current = b.initial }

// wait sleeps for the current delay, then doubles it. It returns false if ctx
// ends first.
func (b *backoff) wait(ctx context.Context) bool {
	timer := time.NewTimer(b.current)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	b.current = min(b.current*2, b.limit)
	return true
}
