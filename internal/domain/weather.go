package domain

import "fmt"

// WeatherMatcher finds the station observation nearest to an AIS observation
// in a single merged weather series. It is read-only after construction and
// safe for concurrent use.
type WeatherMatcher struct {
	index *Index[WeatherRecord]
}

// NewWeatherMatcher indexes records on station latitude, station longitude
// and observation local time.
func NewWeatherMatcher(records []WeatherRecord) *WeatherMatcher {
	return &WeatherMatcher{index: NewIndex(records, WeatherRecord.Position)}
}

// Len reports the number of indexed observations.
func (m *WeatherMatcher) Len() int { return m.index.Len() }

// Match returns the reading of the observation holding the per-axis nearest
// latitude, longitude and local time. All failures satisfy IsMiss.
func (m *WeatherMatcher) Match(pos Position) (WeatherReading, error) {
	row, err := m.index.Lookup(pos)
	if err != nil {
		return WeatherReading{}, fmt.Errorf("weather match: %w", err)
	}
	return WeatherReading{
		WindDirectionID: row.WindDirectionID,
		Ff:              row.Ff,
		P:               row.P,
		T:               row.T,
	}, nil
}

// AttachStationCoordinates joins each observation with its station's
// coordinates. Observations referencing an unknown station are dropped and
// counted in the returned skip total.
func AttachStationCoordinates(obs []WeatherObservation, stations []Station) ([]WeatherRecord, int) {
	byID := make(map[int64]Station, len(stations))
	for _, s := range stations {
		if _, ok := byID[s.ID]; !ok {
			byID[s.ID] = s
		}
	}

	out := make([]WeatherRecord, 0, len(obs))
	skipped := 0
	for _, o := range obs {
		s, ok := byID[o.StationID]
		if !ok {
			skipped++
			continue
		}
		out = append(out, WeatherRecord{
			WeatherObservation: o,
			Latitude:           s.Latitude,
			Longitude:          s.Longitude,
		})
	}
	return out, skipped
}
