package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

// RecordSink persists the enriched fact table of a batch run.
type RecordSink interface {
	Name() string
	WriteRecords(ctx context.Context, runID string, records []domain.EnrichedRecord) error
}

// EventSink publishes enriched records through a BatchLoader in batches of
// batchSize. It adapts the streaming sink for batch runs.
type EventSink struct {
	loader    BatchLoader
	batchSize int
}

// NewEventSink creates an EventSink.
func NewEventSink(loader BatchLoader, batchSize int) *EventSink {
	return &EventSink{loader: loader, batchSize: max(batchSize, 1)}
}

// Name identifies the sink in logs and metrics.
func (s *EventSink) Name() string { return "kafka" }

// WriteRecords serializes and publishes records in order.
func (s *EventSink) WriteRecords(ctx context.Context, runID string, records []domain.EnrichedRecord) error {
	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		events := make([]domain.OutputEvent, 0, end-start)
		for _, rec := range records[start:end] {
			ev, err := domain.SerializeEnriched(rec, runID)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		if err := s.loader.LoadBatch(ctx, events); err != nil {
			return fmt.Errorf("publish rows %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}
