package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// OutputRow is the flat, tabular form of an EnrichedRecord shared by every
// sink. Pointer fields are null when missing or unmatched.
type OutputRow struct {
	SourceMMSI       int64    `json:"sourcemmsi" parquet:"sourcemmsi"`
	T                int64    `json:"t" parquet:"t"`
	Lat              float64  `json:"lat" parquet:"lat"`
	Lon              float64  `json:"lon" parquet:"lon"`
	SpeedOverGround  float64  `json:"speedoverground" parquet:"speedoverground"`
	CourseOverGround *float64 `json:"courseoverground" parquet:"courseoverground,optional"`
	Volume           *float64 `json:"volume" parquet:"volume,optional"`
	Draught          *float64 `json:"draught" parquet:"draught,optional"`

	OceanHs  *float64 `json:"ocean_hs" parquet:"ocean_hs,optional"`
	OceanDir *float64 `json:"ocean_dir" parquet:"ocean_dir,optional"`
	OceanLm  *float64 `json:"ocean_lm" parquet:"ocean_lm,optional"`

	WeatherWindID *float64 `json:"weather_wind_ID" parquet:"weather_wind_ID,optional"`
	WeatherFf     *float64 `json:"weather_Ff" parquet:"weather_Ff,optional"`
	WeatherP      *float64 `json:"weather_P" parquet:"weather_P,optional"`
	WeatherT      *float64 `json:"weather_T" parquet:"weather_T,optional"`
}

// OutputColumns is the column order of OutputRow in tabular sinks.
var OutputColumns = []string{
	"sourcemmsi", "t", "lat", "lon", "speedoverground", "courseoverground", "volume", "draught",
	FieldOceanHs, FieldOceanDir, FieldOceanLm,
	FieldWeatherWindID, FieldWeatherFf, FieldWeatherP, FieldWeatherT,
}

// Row flattens r for tabular output.
func (r EnrichedRecord) Row() OutputRow {
	return OutputRow{
		SourceMMSI:       r.SourceMMSI,
		T:                r.T,
		Lat:              r.Lat,
		Lon:              r.Lon,
		SpeedOverGround:  r.SpeedOverGround,
		CourseOverGround: nullable(r.CourseOverGround),
		Volume:           nullable(r.Volume()),
		Draught:          nullable(r.Draught),
		OceanHs:          r.OceanHs,
		OceanDir:         r.OceanDir,
		OceanLm:          r.OceanLm,
		WeatherWindID:    r.WeatherWindID,
		WeatherFf:        r.WeatherFf,
		WeatherP:         r.WeatherP,
		WeatherT:         r.WeatherT,
	}
}

// Values returns the row's cells in OutputColumns order; nil cells are null.
func (o OutputRow) Values() []any {
	return []any{
		o.SourceMMSI, o.T, o.Lat, o.Lon, o.SpeedOverGround, o.CourseOverGround, o.Volume, o.Draught,
		o.OceanHs, o.OceanDir, o.OceanLm,
		o.WeatherWindID, o.WeatherFf, o.WeatherP, o.WeatherT,
	}
}
