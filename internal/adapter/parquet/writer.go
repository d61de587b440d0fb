package parquet

import (
	"context"
	"fmt"
	"os"

	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

// rowGroupSize bounds how many rows are buffered before a row group is flushed.
const rowGroupSize = 50_000

// Writer writes the enriched fact table as a Parquet file. Nullable
// enrichment columns are optional columns.
// It implements pipeline.RecordSink.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "parquet" }

// WriteRecords replaces the file with the records, in order.
func (w *Writer) WriteRecords(ctx context.Context, _ string, records []domain.EnrichedRecord) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}

	pw := parquetgo.NewGenericWriter[domain.OutputRow](f)
	if err := writeRowGroups(ctx, pw, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func writeRowGroups(ctx context.Context, pw *parquetgo.GenericWriter[domain.OutputRow], records []domain.EnrichedRecord) error {
	rows := make([]domain.OutputRow, 0, min(len(records), rowGroupSize))
	for start := 0; start < len(records); start += rowGroupSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+rowGroupSize, len(records))
		rows = rows[:0]
		for _, rec := range records[start:end] {
			rows = append(rows, rec.Row())
		}
		if _, err := pw.Write(rows); err != nil {
			return err
		}
		if err := pw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
