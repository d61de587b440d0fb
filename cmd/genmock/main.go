// Command genmock writes a synthetic AIS and metocean dataset: the dynamic and
// static AIS tables, one wave-model file per month, the weather station
// tables and a manifest listing them. Output is deterministic for a seed.
//
// Usage:
//
//	go run ./cmd/genmock -out datasets/mock -months 6 -seed 42
//
// Then run the ETL against it:
//
//	DATA_DIR=datasets/mock MANIFEST_PATH=datasets/mock/manifest.yaml go run ./cmd/etl
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/couchcryptid/ais-metocean-etl/internal/mockdata"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	def := mockdata.DefaultOptions()

	out := flag.String("out", "", "output directory for the generated tables")
	seed := flag.Int64("seed", def.Seed, "random seed")
	ships := flag.Int("containerships", def.Containerships, "number of containerships (ship type 7x)")
	others := flag.Int("other-vessels", def.OtherVessels, "number of non-containership vessels")
	reports := flag.Int("reports", def.ReportsPerVessel, "AIS reports per vessel")
	start := flag.String("start", def.Start.Format("2006-01"), "first wave-model month (YYYY-MM)")
	months := flag.Int("months", def.Months, "number of monthly wave-model partitions")
	oceanStep := flag.Duration("ocean-step", def.OceanStep, "wave-model time resolution")
	weatherStep := flag.Duration("weather-step", def.WeatherStep, "weather observation interval")
	grid := flag.Int("grid", def.GridSize, "wave-model grid points per axis")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	startMonth, err := time.Parse("2006-01", *start)
	if err != nil {
		return fmt.Errorf("invalid -start %q: %w", *start, err)
	}
	if *months < 1 || *grid < 1 || *oceanStep <= 0 || *weatherStep <= 0 {
		return fmt.Errorf("-months, -grid, -ocean-step and -weather-step must be positive")
	}

	opts := mockdata.Options{
		Seed:             *seed,
		Containerships:   *ships,
		OtherVessels:     *others,
		ReportsPerVessel: *reports,
		Start:            startMonth.UTC(),
		Months:           *months,
		OceanStep:        *oceanStep,
		WeatherStep:      *weatherStep,
		GridSize:         *grid,
	}

	d := mockdata.Generate(opts)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	if err := d.WriteDir(*out); err != nil {
		return err
	}

	oceanRows := 0
	for _, p := range d.Ocean {
		oceanRows += len(p.Rows)
		log.Printf("ocean %s: %d rows", p.Name, len(p.Rows))
	}
	log.Printf("dynamic: %d reports from %d vessels", len(d.Dynamic), len(d.Static))
	log.Printf("weather: %d observations, %d stations", len(d.Observations), len(d.Stations))
	log.Printf("wrote %d ocean rows across %d partitions to %s", oceanRows, len(d.Ocean), *out)
	return nil
}
