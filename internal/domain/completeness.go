package domain

import "gonum.org/v1/gonum/stat"

// Enriched output field names, in output column order.
const (
	FieldOceanHs       = "ocean_hs"
	FieldOceanDir      = "ocean_dir"
	FieldOceanLm       = "ocean_lm"
	FieldWeatherWindID = "weather_wind_ID"
	FieldWeatherFf     = "weather_Ff"
	FieldWeatherP      = "weather_P"
	FieldWeatherT      = "weather_T"
)

// EnrichedFields lists the nullable enrichment columns in output order.
var EnrichedFields = []string{
	FieldOceanHs, FieldOceanDir, FieldOceanLm,
	FieldWeatherWindID, FieldWeatherFf, FieldWeatherP, FieldWeatherT,
}

// Fields returns the enrichment values of r keyed by output field name.
func (r EnrichedRecord) Fields() map[string]*float64 {
	return map[string]*float64{
		FieldOceanHs:       r.OceanHs,
		FieldOceanDir:      r.OceanDir,
		FieldOceanLm:       r.OceanLm,
		FieldWeatherWindID: r.WeatherWindID,
		FieldWeatherFf:     r.WeatherFf,
		FieldWeatherP:      r.WeatherP,
		FieldWeatherT:      r.WeatherT,
	}
}

// FieldSummary describes how completely one enrichment column was filled.
type FieldSummary struct {
	Field   string  `json:"field"`
	Matched int     `json:"matched"`
	Percent float64 `json:"percent"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
}

// Completeness summarises an enriched table: row count and, per field, the
// share of non-null values and their distribution.
type Completeness struct {
	Rows   int            `json:"rows"`
	Fields []FieldSummary `json:"fields"`
}

// Summarize computes the completeness of records. Fields are reported in
// EnrichedFields order. Mean and StdDev are zero for fields with fewer than
// one and two values respectively.
func Summarize(records []EnrichedRecord) Completeness {
	values := make(map[string][]float64, len(EnrichedFields))
	for _, r := range records {
		for name, v := range r.Fields() {
			if v != nil {
				values[name] = append(values[name], *v)
			}
		}
	}

	c := Completeness{Rows: len(records), Fields: make([]FieldSummary, 0, len(EnrichedFields))}
	for _, name := range EnrichedFields {
		vs := values[name]
		fs := FieldSummary{Field: name, Matched: len(vs)}
		if len(records) > 0 {
			fs.Percent = 100 * float64(len(vs)) / float64(len(records))
		}
		switch {
		case len(vs) >= 2:
			fs.Mean, fs.StdDev = stat.MeanStdDev(vs, nil)
		case len(vs) == 1:
			fs.Mean = vs[0]
		}
		c.Fields = append(c.Fields, fs)
	}
	return c
}

// Field returns the summary for name, or false when it is not tracked.
func (c Completeness) Field(name string) (FieldSummary, bool) {
	for _, f := range c.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldSummary{}, false
}
