package domain

// Matcher resolves the environmental readings nearest to a position.
type Matcher interface {
	MatchOcean(pos Position) (OceanReading, error)
	MatchWeather(pos Position) (WeatherReading, error)
}

// Reference bundles the read-only ocean and weather datasets of a run.
type Reference struct {
	Ocean   *OceanMatcher
	Weather *WeatherMatcher
}

// MatchOcean delegates to the ocean matcher.
func (r *Reference) MatchOcean(pos Position) (OceanReading, error) {
	return r.Ocean.Match(pos)
}

// MatchWeather delegates to the weather matcher.
func (r *Reference) MatchWeather(pos Position) (WeatherReading, error) {
	return r.Weather.Match(pos)
}

// Outcome records why each half of a row's enrichment did or did not match.
// A nil field means the reading was attached.
type Outcome struct {
	Ocean   error
	Weather error
}

// EnrichRecord attaches the nearest ocean and weather readings to rec.
// Misses leave the corresponding fields nil; the reasons are returned in the
// Outcome so callers can count them. rec is not modified.
func EnrichRecord(rec AISRecord, m Matcher) (EnrichedRecord, Outcome) {
	out := EnrichedRecord{AISRecord: rec}
	var oc Outcome
	pos := rec.Position()

	if o, err := m.MatchOcean(pos); err != nil {
		oc.Ocean = err
	} else {
		out.WithOcean(o)
	}

	if w, err := m.MatchWeather(pos); err != nil {
		oc.Weather = err
	} else {
		out.WithWeather(w)
	}

	return out, oc
}

// Complete reports whether both reference datasets are present.
func (r *Reference) Complete() bool {
	return r != nil && r.Ocean != nil && r.Weather != nil
}
