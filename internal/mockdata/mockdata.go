// Package mockdata generates small, deterministic NARI-shaped datasets: AIS
// dynamic and static tables, monthly wave-model grids and weather station
// observations off the coast of Brittany.
package mockdata

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

// Options controls the size and shape of a generated dataset.
type Options struct {
	Seed             int64
	Containerships   int // vessels with ship type 70–79
	OtherVessels     int // fishing, tanker and passenger vessels
	ReportsPerVessel int
	Start            time.Time // first wave-model month, UTC
	Months           int
	OceanStep        time.Duration // wave-model time resolution
	WeatherStep      time.Duration // station observation interval
	GridSize         int           // wave-model lat/lon points per axis
}

// DefaultOptions covers October 2015 to March 2016 like the NARI campaign,
// at a resolution small enough for tests.
func DefaultOptions() Options {
	return Options{
		Seed:             42,
		Containerships:   6,
		OtherVessels:     3,
		ReportsPerVessel: 40,
		Start:            time.Date(2015, time.October, 1, 0, 0, 0, 0, time.UTC),
		Months:           6,
		OceanStep:        6 * time.Hour,
		WeatherStep:      3 * time.Hour,
		GridSize:         6,
	}
}

// Area of interest.
const (
	minLat, maxLat = 47.5, 49.0
	minLon, maxLon = -6.0, -4.0
)

// Partition is one named month of wave-model samples.
type Partition struct {
	Name string
	Rows []domain.OceanRecord
}

// Dataset is a generated set of input tables.
type Dataset struct {
	Dynamic      []domain.AISRecord
	Static       []domain.StaticRecord
	Ocean        []Partition
	Observations []domain.WeatherObservation
	Stations     []domain.Station
}

// Generate builds a dataset from opts. The same options always produce the
// same dataset.
func Generate(opts Options) Dataset {
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // deterministic fixtures
	var d Dataset

	end := opts.Start.AddDate(0, opts.Months, 0)
	for m := opts.Start; m.Before(end); m = m.AddDate(0, 1, 0) {
		d.Ocean = append(d.Ocean, Partition{
			Name: strings.ToLower(m.Month().String()),
			Rows: oceanMonth(rng, m, opts),
		})
	}

	d.Stations = []domain.Station{
		{ID: 1, Latitude: 48.45, Longitude: -4.41}, // Brest-Guipavas
		{ID: 2, Latitude: 48.47, Longitude: -5.06}, // Ouessant
		{ID: 3, Latitude: 47.80, Longitude: -4.37}, // Penmarch
		{ID: 4, Latitude: 48.73, Longitude: -4.02}, // unknown to the station table below
	}
	for t := opts.Start; t.Before(end); t = t.Add(opts.WeatherStep) {
		for _, s := range d.Stations {
			d.Observations = append(d.Observations, observation(rng, s.ID, t))
		}
	}
	d.Stations = d.Stations[:3]

	mmsi := int64(227000000)
	span := end.Sub(opts.Start)
	for i := range opts.Containerships + opts.OtherVessels {
		mmsi += int64(1 + rng.Intn(5000))
		shipType := 70 + rng.Intn(10)
		if i >= opts.Containerships {
			shipType = []int{30, 80, 60}[i%3]
		}
		geom := domain.VesselGeometry{
			ToBow:       float64(100 + rng.Intn(200)),
			ToStern:     float64(20 + rng.Intn(60)),
			ToStarboard: float64(10 + rng.Intn(12)),
			ToPort:      float64(10 + rng.Intn(12)),
			Draught:     math.Round((6+rng.Float64()*8)*10) / 10,
		}
		d.Static = append(d.Static, domain.StaticRecord{SourceMMSI: mmsi, ShipType: shipType, VesselGeometry: geom})

		lat := minLat + rng.Float64()*(maxLat-minLat)
		lon := minLon + rng.Float64()*(maxLon-minLon)
		t := opts.Start.Add(time.Duration(rng.Int63n(int64(span))))
		for range opts.ReportsPerVessel {
			d.Dynamic = append(d.Dynamic, report(rng, mmsi, lat, lon, t))
			lat = clamp(lat+(rng.Float64()-0.5)*0.05, minLat, maxLat)
			lon = clamp(lon+(rng.Float64()-0.5)*0.05, minLon, maxLon)
			t = t.Add(time.Duration(30+rng.Intn(600)) * time.Second)
		}
	}
	return d
}

// oceanMonth samples a full lat × lon × time grid for the month starting at
// m. The last step stops short of the next month so consecutive partitions
// leave a gap.
func oceanMonth(rng *rand.Rand, m time.Time, opts Options) []domain.OceanRecord {
	next := m.AddDate(0, 1, 0)
	var rows []domain.OceanRecord
	for t := m; !t.Add(opts.OceanStep).After(next); t = t.Add(opts.OceanStep) {
		for i := range opts.GridSize {
			for j := range opts.GridSize {
				r := domain.OceanRecord{
					Lat: gridPoint(minLat, maxLat, i, opts.GridSize),
					Lon: gridPoint(minLon, maxLon, j, opts.GridSize),
					TS:  t.Unix(),
					Hs:  round2(0.5 + rng.Float64()*4),
					Dir: round2(rng.Float64() * 360),
					Lm:  round2(40 + rng.Float64()*120),
				}
				if rng.Intn(50) == 0 {
					r.Lm = math.NaN()
				}
				rows = append(rows, r)
			}
		}
	}
	return rows
}

func observation(rng *rand.Rand, station int64, t time.Time) domain.WeatherObservation {
	return domain.WeatherObservation{
		StationID:       station,
		LocalTime:       t.Unix(),
		WindDirectionID: float64(1 + rng.Intn(16)),
		Ff:              round2(rng.Float64() * 20),
		P:               round2(990 + rng.Float64()*40),
		T:               round2(4 + rng.Float64()*12),
	}
}

func report(rng *rand.Rand, mmsi int64, lat, lon float64, t time.Time) domain.AISRecord {
	status := 0
	switch rng.Intn(10) {
	case 0:
		status = 5 // moored
	case 1:
		status = 8
	}
	sog := round2(rng.Float64() * 22)
	return domain.AISRecord{
		SourceMMSI:         mmsi,
		NavigationalStatus: status,
		RateOfTurn:         0,
		SpeedOverGround:    sog,
		CourseOverGround:   round2(rng.Float64() * 360),
		TrueHeading:        float64(rng.Intn(360)),
		Lon:                round6(lon),
		Lat:                round6(lat),
		T:                  t.Unix(),
	}
}

func gridPoint(lo, hi float64, i, n int) float64 {
	if n <= 1 {
		return lo
	}
	return round6(lo + (hi-lo)*float64(i)/float64(n-1))
}

func clamp(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
