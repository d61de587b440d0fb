// Command validate checks an enriched CSV produced by a batch run against the
// inputs it was built from. It reloads the fact table and the reference data
// named in the manifest, re-enriches every row, and verifies row count parity,
// row order, and that every enriched value matches the reference.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data-dir datasets/mock \
//	  -manifest datasets/mock/manifest.yaml \
//	  -enriched enriched.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/ais-metocean-etl/internal/config"
	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
	"github.com/couchcryptid/ais-metocean-etl/internal/pipeline"
)

// maxReported caps the errors kept per phase.
const maxReported = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	errors  []string
	dropped int
}

func (p *phase) errorf(format string, args ...any) {
	if len(p.errors) >= maxReported {
		p.dropped++
		return
	}
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "datasets", "directory the manifest paths are relative to")
	manifestPath := flag.String("manifest", "", "dataset manifest (default: embedded)")
	enrichedPath := flag.String("enriched", "", "enriched CSV written by the ETL")
	minSpeed := flag.Float64("min-sog", domain.DefaultMinSpeedOverGround, "speed over ground threshold used by the run")
	sample := flag.Int("sample-vessels", 0, "vessel sample size used by the run")
	flag.Parse()

	if *enrichedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	opts := domain.CleanOptions{MinSpeedOverGround: *minSpeed, SampleVessels: *sample}
	os.Exit(run(*dataDir, *manifestPath, *enrichedPath, opts))
}

func run(dataDir, manifestPath, enrichedPath string, opts domain.CleanOptions) int {
	fmt.Println("=== Enriched AIS Integrity Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()

	m, err := config.LoadManifest(manifestPath, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	facts, _, err := pipeline.LoadFacts(m, opts, logger, metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load facts: %v\n", err)
		return 1
	}

	ref, err := pipeline.LoadReference(context.Background(), m, logger, metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reference data: %v\n", err)
		return 1
	}

	enriched, err := loadEnriched(enrichedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load enriched CSV: %v\n", err)
		return 1
	}

	expected, err := pipeline.NewEnricher(ref, 4, logger, metrics).Enrich(context.Background(), facts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: re-enrich facts: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRowCount(enriched, facts),
		validateRowOrder(enriched, facts),
		validateReadings(enriched, expected),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors)+p.dropped)
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d fact rows, %d enriched rows\n", len(facts), len(enriched))
	printCompleteness(domain.Summarize(enriched))
	printPartialGroups(enriched)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		if p.dropped > 0 {
			fmt.Printf("  ... and %d more\n", p.dropped)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// loadEnriched parses the enriched CSV back into records. Empty cells are
// null.
func loadEnriched(path string) ([]domain.EnrichedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no header in %s", path)
	}

	col := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range domain.OutputColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	out := make([]domain.EnrichedRecord, 0, len(all)-1)
	for i, line := range all[1:] {
		p := cellParser{line: line, col: col}
		rec := domain.EnrichedRecord{
			AISRecord: domain.AISRecord{
				SourceMMSI:      p.int("sourcemmsi"),
				T:               p.int("t"),
				Lat:             p.float("lat"),
				Lon:             p.float("lon"),
				SpeedOverGround: p.float("speedoverground"),
			},
			OceanHs:       p.nullable(domain.FieldOceanHs),
			OceanDir:      p.nullable(domain.FieldOceanDir),
			OceanLm:       p.nullable(domain.FieldOceanLm),
			WeatherWindID: p.nullable(domain.FieldWeatherWindID),
			WeatherFf:     p.nullable(domain.FieldWeatherFf),
			WeatherP:      p.nullable(domain.FieldWeatherP),
			WeatherT:      p.nullable(domain.FieldWeatherT),
		}
		if p.err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, p.err)
		}
		out = append(out, rec)
	}
	return out, nil
}

type cellParser struct {
	line []string
	col  map[string]int
	err  error
}

func (p *cellParser) cell(name string) string {
	i := p.col[name]
	if i >= len(p.line) {
		return ""
	}
	return strings.TrimSpace(p.line[i])
}

func (p *cellParser) int(name string) int64 {
	v, err := strconv.ParseInt(p.cell(name), 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

func (p *cellParser) float(name string) float64 {
	v, err := strconv.ParseFloat(p.cell(name), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

func (p *cellParser) nullable(name string) *float64 {
	if p.cell(name) == "" {
		return nil
	}
	v := p.float(name)
	return &v
}

// ── Validation phases ──

func validateRowCount(enriched []domain.EnrichedRecord, facts []domain.AISRecord) *phase {
	p := &phase{name: "Row count parity"}
	if len(enriched) != len(facts) {
		p.errorf("enriched has %d rows, fact table has %d", len(enriched), len(facts))
	}
	return p
}

func validateRowOrder(enriched []domain.EnrichedRecord, facts []domain.AISRecord) *phase {
	p := &phase{name: "Row identity and order"}
	for i := range min(len(enriched), len(facts)) {
		got, want := enriched[i], facts[i]
		if got.SourceMMSI != want.SourceMMSI || got.T != want.T {
			p.errorf("row %d: got (%d, %d), want (%d, %d)", i, got.SourceMMSI, got.T, want.SourceMMSI, want.T)
			continue
		}
		if !closeTo(got.Lat, want.Lat) || !closeTo(got.Lon, want.Lon) {
			p.errorf("row %d: position (%g, %g), want (%g, %g)", i, got.Lat, got.Lon, want.Lat, want.Lon)
		}
	}
	return p
}

func validateReadings(enriched, expected []domain.EnrichedRecord) *phase {
	p := &phase{name: "Readings match nearest reference rows"}
	for i := range min(len(enriched), len(expected)) {
		got, want := enriched[i].Fields(), expected[i].Fields()
		for _, field := range domain.EnrichedFields {
			g, w := got[field], want[field]
			switch {
			case g == nil && w == nil:
			case g == nil:
				p.errorf("row %d %s: null, want %g", i, field, *w)
			case w == nil:
				p.errorf("row %d %s: %g, want null", i, field, *g)
			case !closeTo(*g, *w):
				p.errorf("row %d %s: %g, want %g", i, field, *g, *w)
			}
		}
	}
	return p
}

// ── Reporting ──

func printCompleteness(c domain.Completeness) {
	fmt.Println()
	fmt.Printf("  %-18s %8s %8s %10s %10s\n", "field", "matched", "percent", "mean", "std_dev")
	for _, f := range c.Fields {
		fmt.Printf("  %-18s %8d %7.2f%% %10.3f %10.3f\n", f.Field, f.Matched, f.Percent, f.Mean, f.StdDev)
	}
}

// printPartialGroups counts rows where a reading group is only partly null,
// which happens when the matched reference row is missing a measurement.
func printPartialGroups(records []domain.EnrichedRecord) {
	var ocean, weather int
	for _, r := range records {
		if partial(r.OceanHs, r.OceanDir, r.OceanLm) {
			ocean++
		}
		if partial(r.WeatherWindID, r.WeatherFf, r.WeatherP, r.WeatherT) {
			weather++
		}
	}
	fmt.Printf("\nPartially null groups: %d ocean, %d weather\n", ocean, weather)
}

func partial(values ...*float64) bool {
	nulls := 0
	for _, v := range values {
		if v == nil {
			nulls++
		}
	}
	return nulls > 0 && nulls < len(values)
}

// closeTo compares values that went through a decimal text round trip.
func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
