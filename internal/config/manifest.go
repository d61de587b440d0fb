package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

//go:embed manifest.yaml
var embeddedManifest []byte

// Manifest lists the input files of a run. Ocean partitions are matched in
// the order they are declared.
type Manifest struct {
	// Dynamic is the AIS report table. Without Static it is treated as an
	// already cleaned fact table that carries vessel geometry columns.
	Dynamic string           `yaml:"dynamic"`
	Static  string           `yaml:"static"`
	Ocean   []OceanPartition `yaml:"ocean"`
	Weather WeatherFiles     `yaml:"weather"`
}

// OceanPartition is one wave-model file. Bound is optional; when absent the
// partition covers the [min, max] of its own ts column.
type OceanPartition struct {
	Name  string        `yaml:"name"`
	Path  string        `yaml:"path"`
	Bound *domain.Bound `yaml:"bound,omitempty"`
}

// WeatherFiles holds the station observation and station coordinate tables.
type WeatherFiles struct {
	Observations string `yaml:"observations"`
	Stations     string `yaml:"stations"`
}

// LoadManifest reads the manifest at path, or the embedded default when path
// is empty, and resolves its file paths against dataDir.
func LoadManifest(path, dataDir string) (*Manifest, error) {
	data := embeddedManifest
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", path, err)
		}
		data = b
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.resolve(dataDir)
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Dynamic == "" {
		return errors.New("manifest: dynamic is required")
	}
	if len(m.Ocean) == 0 {
		return errors.New("manifest: at least one ocean partition is required")
	}
	seen := make(map[string]struct{}, len(m.Ocean))
	for i, p := range m.Ocean {
		if p.Name == "" || p.Path == "" {
			return fmt.Errorf("manifest: ocean[%d] needs a name and a path", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("manifest: duplicate ocean partition %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Bound != nil && p.Bound.Low > p.Bound.High {
			return fmt.Errorf("manifest: ocean partition %q has low > high", p.Name)
		}
	}
	if m.Weather.Observations == "" || m.Weather.Stations == "" {
		return errors.New("manifest: weather observations and stations are required")
	}
	return nil
}

func (m *Manifest) resolve(dir string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	m.Dynamic = join(m.Dynamic)
	m.Static = join(m.Static)
	for i := range m.Ocean {
		m.Ocean[i].Path = join(m.Ocean[i].Path)
	}
	m.Weather.Observations = join(m.Weather.Observations)
	m.Weather.Stations = join(m.Weather.Stations)
}
