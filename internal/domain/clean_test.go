package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainershipIndex(t *testing.T) {
	static := []StaticRecord{
		{SourceMMSI: 227000001, ShipType: 70, VesselGeometry: VesselGeometry{ToBow: 200, ToStern: 50, ToStarboard: 16, ToPort: 16, Draught: 11}},
		{SourceMMSI: 227000002, ShipType: 30},                                                    // fishing
		{SourceMMSI: 227000003, ShipType: 79, VesselGeometry: VesselGeometry{ToBow: 100}},        // cargo, no hazard category
		{SourceMMSI: 227000001, ShipType: 71, VesselGeometry: VesselGeometry{ToBow: 1}},          // duplicate MMSI
		{SourceMMSI: 227000004, ShipType: 700},                                                   // malformed type code
		{SourceMMSI: 0, ShipType: 70},                                                            // malformed MMSI
		{SourceMMSI: 227000005, ShipType: -1, VesselGeometry: VesselGeometry{ToBow: math.NaN()}}, // unparsable type
	}

	fleet, rejected := ContainershipIndex(static)

	assert.Equal(t, 3, rejected)
	require.Len(t, fleet, 2)
	assert.Equal(t, 200.0, fleet[227000001].ToBow, "first record per MMSI wins")
	assert.Contains(t, fleet, int64(227000003))
	assert.NotContains(t, fleet, int64(227000002))
}

func TestIsContainership(t *testing.T) {
	assert.True(t, IsContainership(70))
	assert.True(t, IsContainership(79))
	assert.False(t, IsContainership(7))
	assert.False(t, IsContainership(80))
	assert.False(t, IsContainership(69))
}

func TestCleanFacts(t *testing.T) {
	geom := VesselGeometry{ToBow: 150, ToStern: 30, ToStarboard: 12, ToPort: 12, Draught: 9.5}
	fleet := map[int64]VesselGeometry{111: geom, 222: geom}

	ais := func(mmsi int64, status int, sog float64) AISRecord {
		return AISRecord{SourceMMSI: mmsi, NavigationalStatus: status, SpeedOverGround: sog, Lat: 48.1, Lon: -4.5, T: 1443654000}
	}
	dynamic := []AISRecord{
		ais(111, 0, 12.3),
		ais(333, 0, 12.3), // not a containership
		ais(111, 5, 12.3), // moored
		ais(222, 8, 5.0),  // speed not above threshold
		ais(222, 3, 5.1),
		{SourceMMSI: 111, SpeedOverGround: 10, Lat: 123, Lon: 0, T: 1}, // latitude out of range
		ais(111, 4, math.NaN()),
	}

	got, stats := CleanFacts(dynamic, fleet, CleanOptions{MinSpeedOverGround: DefaultMinSpeedOverGround})

	require.Len(t, got, 2)
	assert.Equal(t, int64(111), got[0].SourceMMSI)
	assert.Equal(t, int64(222), got[1].SourceMMSI)
	assert.Equal(t, geom, got[0].VesselGeometry)
	assert.Equal(t, CleanStats{Input: 7, Invalid: 2, NotContainership: 1, Status: 1, Speed: 1, Output: 2}, stats)
}

func TestCleanFacts_CustomStatusesAndSample(t *testing.T) {
	fleet := map[int64]VesselGeometry{1: {}, 2: {}, 3: {}}
	var dynamic []AISRecord
	for _, mmsi := range []int64{1, 2, 1, 3, 2} {
		dynamic = append(dynamic, AISRecord{SourceMMSI: mmsi, NavigationalStatus: 1, SpeedOverGround: 10, Lat: 1, Lon: 1, T: 10})
	}

	got, stats := CleanFacts(dynamic, fleet, CleanOptions{NavigationalStatuses: []int{1}, MinSpeedOverGround: 5, SampleVessels: 2})

	require.Len(t, got, 4)
	for _, r := range got {
		assert.NotEqual(t, int64(3), r.SourceMMSI)
	}
	assert.Equal(t, 1, stats.Sampled)
	assert.Equal(t, 4, stats.Output)
}

func TestVesselGeometry_Volume(t *testing.T) {
	g := VesselGeometry{ToBow: 200, ToStern: 50, ToStarboard: 16, ToPort: 16}
	assert.Equal(t, 8000.0, g.Volume())
	assert.True(t, math.IsNaN(UnknownGeometry().Volume()))
}

func TestValidFacts(t *testing.T) {
	rows := []AISRecord{
		{SourceMMSI: 1, Lat: 1, Lon: 1, T: 1},
		{SourceMMSI: 1, Lat: 1, Lon: 181, T: 1},
		{SourceMMSI: 1, Lat: math.NaN(), Lon: 1, T: 1},
	}
	got, dropped := ValidFacts(rows)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, dropped)
}
