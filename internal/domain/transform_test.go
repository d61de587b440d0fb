package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawEvent(t *testing.T) {
	t.Run("dynamic AIS report", func(t *testing.T) {
		data := []byte(`{"sourcemmsi":227705102,"navigationalstatus":0,"rateofturn":0,"speedoverground":13.4,"courseoverground":281.2,"trueheading":280,"lon":-4.6,"lat":48.2,"t":1443657600}`)
		rec, err := ParseRawEvent(RawEvent{Value: data})

		require.NoError(t, err)
		assert.Equal(t, int64(227705102), rec.SourceMMSI)
		assert.Equal(t, 13.4, rec.SpeedOverGround)
		assert.Equal(t, Position{Lat: 48.2, Lon: -4.6, TS: 1443657600}, rec.Position())
		assert.True(t, math.IsNaN(rec.ToBow), "absent geometry stays unknown")
	})

	t.Run("fact row with geometry", func(t *testing.T) {
		data := []byte(`{"sourcemmsi":227705102,"speedoverground":13.4,"lon":-4.6,"lat":48.2,"t":1443657600,"tobow":200,"tostern":50,"tostarboard":16,"toport":16,"draught":11.5}`)
		rec, err := ParseRawEvent(RawEvent{Value: data})

		require.NoError(t, err)
		assert.Equal(t, 8000.0, rec.Volume())
		assert.Equal(t, 11.5, rec.Draught)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte("not json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw event")
	})

	t.Run("out of range latitude", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"sourcemmsi":1,"lat":95,"lon":0,"t":1}`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ais record")
	})
}

func TestSerializeEnriched(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2015, time.October, 1, 6, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	rec := EnrichedRecord{
		AISRecord: AISRecord{
			SourceMMSI:       227705102,
			SpeedOverGround:  13.4,
			CourseOverGround: math.NaN(),
			Lat:              48.2,
			Lon:              -4.6,
			T:                1443657600,
			VesselGeometry:   VesselGeometry{ToBow: 200, ToStern: 50, ToStarboard: 16, ToPort: 16, Draught: 11.5},
		},
		OceanHs:  ptr(1.5),
		OceanDir: ptr(90),
		OceanLm:  ptr(80),
	}

	out, err := SerializeEnriched(rec, "run-1")
	require.NoError(t, err)

	assert.Equal(t, []byte("227705102-1443657600"), out.Key)
	assert.Equal(t, "227705102", out.Headers["sourcemmsi"])
	assert.Equal(t, "run-1", out.Headers["run_id"])
	assert.Equal(t, "2015-10-01T06:00:00Z", out.Headers["processed_at"])

	var row OutputRow
	require.NoError(t, json.Unmarshal(out.Value, &row))
	want := OutputRow{
		SourceMMSI:      227705102,
		T:               1443657600,
		Lat:             48.2,
		Lon:             -4.6,
		SpeedOverGround: 13.4,
		Volume:          ptr(8000),
		Draught:         ptr(11.5),
		OceanHs:         ptr(1.5),
		OceanDir:        ptr(90),
		OceanLm:         ptr(80),
	}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, string(out.Value), `"weather_T":null`)
}

func TestOutputRow_Values(t *testing.T) {
	row := EnrichedRecord{AISRecord: AISRecord{SourceMMSI: 1, VesselGeometry: UnknownGeometry()}}.Row()
	values := row.Values()
	require.Len(t, values, len(OutputColumns))
	assert.Equal(t, int64(1), values[0])
	assert.Nil(t, row.Volume)
}
