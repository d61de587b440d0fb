package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

// Writer writes the enriched fact table as CSV, one file per run. Null cells
// are written empty. It implements pipeline.RecordSink.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "csv" }

// WriteRecords replaces the file with a header and one line per record, in
// record order.
func (w *Writer) WriteRecords(ctx context.Context, _ string, records []domain.EnrichedRecord) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}

	if err := writeRows(ctx, csv.NewWriter(f), records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return f.Close()
}

func writeRows(ctx context.Context, cw *csv.Writer, records []domain.EnrichedRecord) error {
	if err := cw.Write(domain.OutputColumns); err != nil {
		return err
	}
	line := make([]string, len(domain.OutputColumns))
	for i, rec := range records {
		if i%10000 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		for j, v := range rec.Row().Values() {
			line[j] = formatCell(v)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
