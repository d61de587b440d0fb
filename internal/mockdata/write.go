package mockdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/ais-metocean-etl/internal/config"
)

// File names written by WriteDir, matching the default manifest.
const (
	DynamicFile      = "nari_dynamic.csv"
	StaticFile       = "nari_static.csv"
	ObservationsFile = "table_weather_observation.csv"
	StationsFile     = "table_weatherStation.csv"
	ManifestFile     = "manifest.yaml"
)

// OceanFile is the file name of a wave-model partition.
func OceanFile(name string) string { return "oc_" + name + ".csv" }

// WriteDir writes every table of d as CSV into dir, plus a manifest.yaml
// listing them with paths relative to dir.
func (d Dataset) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{DynamicFile, []string{"sourcemmsi", "navigationalstatus", "rateofturn", "speedoverground", "courseoverground", "trueheading", "lon", "lat", "t"}, d.dynamicRows()},
		{StaticFile, []string{"sourcemmsi", "shipname", "shiptype", "tobow", "tostern", "tostarboard", "toport", "draught"}, d.staticRows()},
		{ObservationsFile, []string{"id_station", "local_time", "id_windDirection", "Ff", "P", "T"}, d.observationRows()},
		{StationsFile, []string{"id_station", "latitude", "longitude"}, d.stationRows()},
	}
	for _, p := range d.Ocean {
		var rows [][]string
		for _, r := range p.Rows {
			rows = append(rows, []string{ff(r.Lon), ff(r.Lat), "", "", ff(r.Hs), ff(r.Lm), ff(r.Dir), fi(r.TS)})
		}
		tables = append(tables, struct {
			name   string
			header []string
			rows   [][]string
		}{OceanFile(p.Name), []string{"lon", "lat", "dpt", "wlv", "hs", "lm", "dir", "ts"}, rows})
	}

	for _, t := range tables {
		if err := writeCSV(filepath.Join(dir, t.name), t.header, t.rows); err != nil {
			return err
		}
	}
	return d.writeManifest(filepath.Join(dir, ManifestFile))
}

func (d Dataset) dynamicRows() [][]string {
	rows := make([][]string, 0, len(d.Dynamic))
	for _, r := range d.Dynamic {
		rows = append(rows, []string{
			fi(r.SourceMMSI), strconv.Itoa(r.NavigationalStatus), ff(r.RateOfTurn), ff(r.SpeedOverGround),
			ff(r.CourseOverGround), ff(r.TrueHeading), ff(r.Lon), ff(r.Lat), fi(r.T),
		})
	}
	return rows
}

func (d Dataset) staticRows() [][]string {
	rows := make([][]string, 0, len(d.Static))
	for _, r := range d.Static {
		rows = append(rows, []string{
			fi(r.SourceMMSI), "VESSEL " + fi(r.SourceMMSI), strconv.Itoa(r.ShipType),
			ff(r.ToBow), ff(r.ToStern), ff(r.ToStarboard), ff(r.ToPort), ff(r.Draught),
		})
	}
	return rows
}

func (d Dataset) observationRows() [][]string {
	rows := make([][]string, 0, len(d.Observations))
	for _, o := range d.Observations {
		rows = append(rows, []string{
			fi(o.StationID), time.Unix(o.LocalTime, 0).UTC().Format("2006-01-02 15:04:05"),
			ff(o.WindDirectionID), ff(o.Ff), ff(o.P), ff(o.T),
		})
	}
	return rows
}

func (d Dataset) stationRows() [][]string {
	rows := make([][]string, 0, len(d.Stations))
	for _, s := range d.Stations {
		rows = append(rows, []string{fi(s.ID), ff(s.Latitude), ff(s.Longitude)})
	}
	return rows
}

func (d Dataset) writeManifest(path string) error {
	m := config.Manifest{
		Dynamic: DynamicFile,
		Static:  StaticFile,
		Weather: config.WeatherFiles{Observations: ObservationsFile, Stations: StationsFile},
	}
	for _, p := range d.Ocean {
		m.Ocean = append(m.Ocean, config.OceanPartition{Name: p.Name, Path: OceanFile(p.Name)})
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func fi(v int64) string { return strconv.FormatInt(v, 10) }

func ff(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
