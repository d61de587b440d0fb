package mockdata

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ais-metocean-etl/internal/adapter/csvio"
	"github.com/couchcryptid/ais-metocean-etl/internal/config"
	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Months = 2
	opts.OceanStep = 12 * time.Hour
	opts.GridSize = 3
	opts.ReportsPerVessel = 10
	return opts
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(smallOptions())
	b := Generate(smallOptions())
	if diff := cmp.Diff(a, b, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("same options produced different datasets (-a +b):\n%s", diff)
	}
}

func TestGenerate_Shape(t *testing.T) {
	opts := smallOptions()
	d := Generate(opts)

	require.Len(t, d.Ocean, 2)
	assert.Equal(t, "october", d.Ocean[0].Name)
	assert.Equal(t, "november", d.Ocean[1].Name)
	assert.Len(t, d.Static, opts.Containerships+opts.OtherVessels)
	assert.Len(t, d.Dynamic, (opts.Containerships+opts.OtherVessels)*opts.ReportsPerVessel)
	assert.Len(t, d.Stations, 3)

	oct, err := domain.NewOceanPartition("october", d.Ocean[0].Rows)
	require.NoError(t, err)
	nov, err := domain.NewOceanPartition("november", d.Ocean[1].Rows)
	require.NoError(t, err)
	assert.Less(t, oct.Bound.High, nov.Bound.Low, "consecutive months leave a gap")

	for _, s := range d.Static[:opts.Containerships] {
		assert.True(t, domain.IsContainership(s.ShipType))
	}
	for _, s := range d.Static[opts.Containerships:] {
		assert.False(t, domain.IsContainership(s.ShipType))
	}
}

func TestWriteDir_ReadsBack(t *testing.T) {
	dir := t.TempDir()
	d := Generate(smallOptions())
	require.NoError(t, d.WriteDir(dir))

	m, err := config.LoadManifest(dir+"/"+ManifestFile, dir)
	require.NoError(t, err)
	require.Len(t, m.Ocean, 2)

	dynamic, err := csvio.ReadDynamic(m.Dynamic)
	require.NoError(t, err)
	assert.Len(t, dynamic, len(d.Dynamic))
	assert.Equal(t, d.Dynamic[0].Position(), dynamic[0].Position())

	static, err := csvio.ReadStatic(m.Static)
	require.NoError(t, err)
	assert.Len(t, static, len(d.Static))

	ocean, err := csvio.ReadOcean(m.Ocean[0].Path)
	require.NoError(t, err)
	if diff := cmp.Diff(d.Ocean[0].Rows, ocean, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("ocean rows (-want +got):\n%s", diff)
	}

	obs, err := csvio.ReadWeatherObservations(m.Weather.Observations)
	require.NoError(t, err)
	assert.Equal(t, d.Observations, obs)

	stations, err := csvio.ReadStations(m.Weather.Stations)
	require.NoError(t, err)
	assert.Equal(t, d.Stations, stations)
}
