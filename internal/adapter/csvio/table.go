// Package csvio reads the NARI, wave-model and weather station CSV tables and
// writes the enriched fact table. Columns are addressed by header name, so
// extra columns (such as a leading index column) are ignored.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// localTimeLayout is the textual form of weather observation timestamps.
const localTimeLayout = "2006-01-02 15:04:05"

// row gives typed access to one CSV record. The first conversion error is
// kept in err and later accessors return zero values.
type row struct {
	cols   map[string]int
	record []string
	line   int
	err    error
}

func (r *row) cell(name string) (string, bool) {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return "", false
	}
	return strings.TrimSpace(r.record[i]), true
}

func (r *row) fail(name, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d column %s: invalid value %q: %w", r.line, name, value, err)
	}
}

// float parses a measurement column. Empty and NaN cells are missing (NaN).
func (r *row) float(name string) float64 {
	s, ok := r.cell(name)
	if !ok || isMissing(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(name, s, err)
		return math.NaN()
	}
	return v
}

// int parses a required integer column. Integral floats such as "70.0" are
// accepted since pandas writes nullable integer columns that way.
func (r *row) int(name string) int64 {
	s, _ := r.cell(name)
	v, err := parseInt(s)
	if err != nil {
		r.fail(name, s, err)
	}
	return v
}

// intOr parses an optional integer column, returning def when the cell is
// empty or the column is absent.
func (r *row) intOr(name string, def int64) int64 {
	s, ok := r.cell(name)
	if !ok || isMissing(s) {
		return def
	}
	v, err := parseInt(s)
	if err != nil {
		r.fail(name, s, err)
	}
	return v
}

// unixTime parses a timestamp column given as unix seconds or in
// localTimeLayout (UTC).
func (r *row) unixTime(name string) int64 {
	s, _ := r.cell(name)
	if v, err := parseInt(s); err == nil {
		return v
	}
	ts, err := time.ParseInLocation(localTimeLayout, s, time.UTC)
	if err != nil {
		r.fail(name, s, err)
		return 0
	}
	return ts.Unix()
}

func isMissing(s string) bool {
	return s == "" || strings.EqualFold(s, "nan")
}

var errNotInteger = errors.New("not an integer")

func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errNotInteger
	}
	return int64(f), nil
}

// readTable streams the CSV file at path, calling fn for every data record.
// It fails when a required column is absent from the header.
func readTable(path string, required []string, fn func(*row) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := scanTable(f, required, fn); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func scanTable(src io.Reader, required []string, fn func(*row) error) error {
	reader := csv.NewReader(src)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	r := &row{cols: cols, line: 1}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		r.line++
		r.record = record
		if err := fn(r); err != nil {
			return err
		}
		if r.err != nil {
			return r.err
		}
	}
}
