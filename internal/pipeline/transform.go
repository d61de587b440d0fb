package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

// RecordTransformer implements Transformer for the streaming pipeline: it
// parses an AIS report, enriches it and serializes the result. Match misses
// are not errors; they yield null readings like in batch runs.
type RecordTransformer struct {
	enricher *Enricher
	runID    string
	logger   *slog.Logger
}

// NewTransformer creates a RecordTransformer. runID is stamped on every
// output event.
func NewTransformer(enricher *Enricher, runID string, logger *slog.Logger) *RecordTransformer {
	return &RecordTransformer{
		enricher: enricher,
		runID:    runID,
		logger:   logger,
	}
}

func (t *RecordTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	enriched, err := t.enricher.EnrichRecord(rec)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	return domain.SerializeEnriched(enriched, t.runID)
}
