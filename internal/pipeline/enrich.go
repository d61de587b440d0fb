package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
)

// ErrNoReference is returned when enrichment runs without reference data.
var ErrNoReference = errors.New("enrichment requires a reference dataset")

// cancelCheckInterval is how many rows a worker enriches between context checks.
const cancelCheckInterval = 1024

// Enricher joins AIS fact rows with their nearest ocean and weather readings.
// It is safe for concurrent use; the matcher must be too.
type Enricher struct {
	matcher domain.Matcher
	workers int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewEnricher creates an Enricher that splits work across the given number
// of workers (at least one).
func NewEnricher(matcher domain.Matcher, workers int, logger *slog.Logger, metrics *observability.Metrics) *Enricher {
	return &Enricher{
		matcher: matcher,
		workers: max(workers, 1),
		logger:  logger,
		metrics: metrics,
	}
}

// outcomeCounts tallies match outcomes by source and label.
type outcomeCounts map[[2]string]int

func (c outcomeCounts) add(o domain.Outcome) {
	c[[2]string{"ocean", domain.MissReason(o.Ocean)}]++
	c[[2]string{"weather", domain.MissReason(o.Weather)}]++
}

// Enrich returns one enriched record per input row, in input order. Rows are
// split into contiguous chunks, one per worker, and every worker writes only
// the output slots of its own chunk. A row whose readings cannot be matched
// gets null fields; only cancellation or missing reference data fails the call.
func (e *Enricher) Enrich(ctx context.Context, rows []domain.AISRecord) ([]domain.EnrichedRecord, error) {
	if !hasReference(e.matcher) {
		return nil, ErrNoReference
	}
	start := time.Now()
	out := make([]domain.EnrichedRecord, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	workers := min(e.workers, len(rows))
	chunk := (len(rows) + workers - 1) / workers
	counts := make([]outcomeCounts, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, len(rows))
		if lo >= hi {
			continue
		}
		counts[w] = make(outcomeCounts)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				rec, oc := domain.EnrichRecord(rows[i], e.matcher)
				out[i] = rec
				counts[w].add(oc)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make(outcomeCounts)
	for _, c := range counts {
		for k, n := range c {
			total[k] += n
		}
	}
	for k, n := range total {
		e.metrics.MatchOutcomes.WithLabelValues(k[0], k[1]).Add(float64(n))
	}
	e.metrics.RowsEnriched.Add(float64(len(rows)))
	e.metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())

	e.logger.Info("enrichment complete",
		"rows", len(rows),
		"workers", workers,
		"ocean_matched", total[[2]string{"ocean", domain.OutcomeMatched}],
		"ocean_no_partition", total[[2]string{"ocean", domain.OutcomeNoPartition}],
		"ocean_no_match", total[[2]string{"ocean", domain.OutcomeNoMatch}],
		"weather_matched", total[[2]string{"weather", domain.OutcomeMatched}],
		"weather_no_match", total[[2]string{"weather", domain.OutcomeNoMatch}],
		"duration", time.Since(start),
	)
	return out, nil
}

// EnrichRecord enriches a single row.
func (e *Enricher) EnrichRecord(rec domain.AISRecord) (domain.EnrichedRecord, error) {
	if !hasReference(e.matcher) {
		return domain.EnrichedRecord{}, ErrNoReference
	}
	out, oc := domain.EnrichRecord(rec, e.matcher)
	e.metrics.MatchOutcomes.WithLabelValues("ocean", domain.MissReason(oc.Ocean)).Inc()
	e.metrics.MatchOutcomes.WithLabelValues("weather", domain.MissReason(oc.Weather)).Inc()
	e.metrics.RowsEnriched.Inc()
	return out, nil
}

func hasReference(m domain.Matcher) bool {
	if ref, ok := m.(*domain.Reference); ok {
		return ref.Complete()
	}
	return m != nil
}
