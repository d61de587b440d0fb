package domain

import "math"

// Position is where and when an observation was taken. TS is unix seconds.
type Position struct {
	Lat float64
	Lon float64
	TS  int64
}

// VesselGeometry holds the static hull dimensions reported over AIS, in metres.
// Missing values are NaN.
type VesselGeometry struct {
	ToBow       float64 `json:"tobow"`
	ToStern     float64 `json:"tostern"`
	ToStarboard float64 `json:"tostarboard"`
	ToPort      float64 `json:"toport"`
	Draught     float64 `json:"draught"`
}

// Volume is the hull footprint area used as a volume proxy:
// (bow + stern) * (starboard + port).
func (g VesselGeometry) Volume() float64 {
	return (g.ToBow + g.ToStern) * (g.ToStarboard + g.ToPort)
}

// UnknownGeometry is the geometry of a vessel with no static record.
func UnknownGeometry() VesselGeometry {
	nan := math.NaN()
	return VesselGeometry{ToBow: nan, ToStern: nan, ToStarboard: nan, ToPort: nan, Draught: nan}
}

// AISRecord is one dynamic AIS report, optionally joined with the vessel's
// static geometry. It is the fact row of the enrichment join.
type AISRecord struct {
	SourceMMSI         int64   `json:"sourcemmsi" validate:"gt=0"`
	NavigationalStatus int     `json:"navigationalstatus" validate:"gte=0,lte=15"`
	RateOfTurn         float64 `json:"rateofturn"`
	SpeedOverGround    float64 `json:"speedoverground" validate:"gte=0"`
	CourseOverGround   float64 `json:"courseoverground"`
	TrueHeading        float64 `json:"trueheading"`
	Lon                float64 `json:"lon" validate:"gte=-180,lte=180"`
	Lat                float64 `json:"lat" validate:"gte=-90,lte=90"`
	T                  int64   `json:"t" validate:"gt=0"`

	VesselGeometry
}

// Position returns the record's coordinates and timestamp.
func (r AISRecord) Position() Position {
	return Position{Lat: r.Lat, Lon: r.Lon, TS: r.T}
}

// StaticRecord is one row of the static vessel table.
type StaticRecord struct {
	SourceMMSI int64 `validate:"gt=0"`
	ShipType   int   `validate:"gte=0,lte=99"`
	VesselGeometry
}

// OceanRecord is one wave-model grid sample. Missing measurements are NaN.
type OceanRecord struct {
	Lat float64
	Lon float64
	TS  int64
	Hs  float64 // significant wave height
	Dir float64 // mean wave direction
	Lm  float64 // mean wave length
}

// Position returns the sample's coordinates and timestamp.
func (r OceanRecord) Position() Position {
	return Position{Lat: r.Lat, Lon: r.Lon, TS: r.TS}
}

// OceanReading is the wave data attached to a matched AIS row.
type OceanReading struct {
	Hs  float64
	Dir float64
	Lm  float64
}

// WeatherObservation is one row of the weather station observation table.
type WeatherObservation struct {
	StationID       int64
	LocalTime       int64
	WindDirectionID float64
	Ff              float64 // mean wind speed
	P               float64 // sea-level pressure
	T               float64 // air temperature at 2 m
}

// Station is one row of the weather station table.
type Station struct {
	ID        int64
	Latitude  float64
	Longitude float64
}

// WeatherRecord is an observation joined with its station's coordinates.
type WeatherRecord struct {
	WeatherObservation
	Latitude  float64
	Longitude float64
}

// Position returns the observation's station coordinates and local time.
func (r WeatherRecord) Position() Position {
	return Position{Lat: r.Latitude, Lon: r.Longitude, TS: r.LocalTime}
}

// WeatherReading is the meteorological data attached to a matched AIS row.
type WeatherReading struct {
	WindDirectionID float64
	Ff              float64
	P               float64
	T               float64
}

// EnrichedRecord is an AIS fact row with its nearest ocean and weather
// readings. A nil reading field means no match was produced for the row.
type EnrichedRecord struct {
	AISRecord

	OceanHs  *float64
	OceanDir *float64
	OceanLm  *float64

	WeatherWindID *float64
	WeatherFf     *float64
	WeatherP      *float64
	WeatherT      *float64
}

// WithOcean attaches a matched ocean reading.
func (r *EnrichedRecord) WithOcean(o OceanReading) {
	r.OceanHs, r.OceanDir, r.OceanLm = nullable(o.Hs), nullable(o.Dir), nullable(o.Lm)
}

// WithWeather attaches a matched weather reading.
func (r *EnrichedRecord) WithWeather(w WeatherReading) {
	r.WeatherWindID = nullable(w.WindDirectionID)
	r.WeatherFf = nullable(w.Ff)
	r.WeatherP = nullable(w.P)
	r.WeatherT = nullable(w.T)
}

// nullable maps NaN (a missing measurement) to nil.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
