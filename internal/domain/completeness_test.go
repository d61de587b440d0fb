package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	records := []EnrichedRecord{
		{OceanHs: ptr(1), OceanDir: ptr(90), OceanLm: ptr(8), WeatherFf: ptr(4)},
		{OceanHs: ptr(3), OceanDir: ptr(270), OceanLm: ptr(10)},
		{},
		{WeatherFf: ptr(6)},
	}

	c := Summarize(records)

	assert.Equal(t, 4, c.Rows)
	require.Len(t, c.Fields, len(EnrichedFields))

	hs, ok := c.Field(FieldOceanHs)
	require.True(t, ok)
	assert.Equal(t, 2, hs.Matched)
	assert.InDelta(t, 50.0, hs.Percent, 1e-9)
	assert.InDelta(t, 2.0, hs.Mean, 1e-9)
	assert.InDelta(t, 1.4142135, hs.StdDev, 1e-6)

	ff, ok := c.Field(FieldWeatherFf)
	require.True(t, ok)
	assert.Equal(t, 2, ff.Matched)
	assert.InDelta(t, 5.0, ff.Mean, 1e-9)

	p, ok := c.Field(FieldWeatherP)
	require.True(t, ok)
	assert.Zero(t, p.Matched)
	assert.Zero(t, p.Percent)

	_, ok = c.Field("speed")
	assert.False(t, ok)
}

func TestSummarize_Empty(t *testing.T) {
	c := Summarize(nil)
	assert.Zero(t, c.Rows)
	for _, f := range c.Fields {
		assert.Zero(t, f.Percent)
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	c := Summarize([]EnrichedRecord{{WeatherT: ptr(14.5)}})
	f, ok := c.Field(FieldWeatherT)
	require.True(t, ok)
	assert.InDelta(t, 14.5, f.Mean, 1e-9)
	assert.Zero(t, f.StdDev)
	assert.InDelta(t, 100.0, f.Percent, 1e-9)
}
