package csvio

import "github.com/couchcryptid/ais-metocean-etl/internal/domain"

var (
	dynamicColumns = []string{"sourcemmsi", "navigationalstatus", "speedoverground", "courseoverground", "lon", "lat", "t"}
	staticColumns  = []string{"sourcemmsi", "shiptype"}
	oceanColumns   = []string{"lat", "lon", "ts", "hs", "dir", "lm"}
	weatherColumns = []string{"id_station", "local_time", "id_windDirection", "Ff", "P", "T"}
	stationColumns = []string{"id_station", "latitude", "longitude"}
)

// ReadDynamic loads AIS position reports. Vessel geometry columns are read
// when present, which is the case for an already cleaned fact table;
// otherwise geometry is unknown (NaN).
func ReadDynamic(path string) ([]domain.AISRecord, error) {
	var out []domain.AISRecord
	err := readTable(path, dynamicColumns, func(r *row) error {
		rec := domain.AISRecord{
			SourceMMSI:         r.int("sourcemmsi"),
			NavigationalStatus: int(r.intOr("navigationalstatus", -1)),
			RateOfTurn:         r.float("rateofturn"),
			SpeedOverGround:    r.float("speedoverground"),
			CourseOverGround:   r.float("courseoverground"),
			TrueHeading:        r.float("trueheading"),
			Lon:                r.float("lon"),
			Lat:                r.float("lat"),
			T:                  r.int("t"),
			VesselGeometry:     geometry(r),
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

// ReadStatic loads vessel particulars. An empty ship type becomes -1 so the
// record is rejected by validation rather than the load.
func ReadStatic(path string) ([]domain.StaticRecord, error) {
	var out []domain.StaticRecord
	err := readTable(path, staticColumns, func(r *row) error {
		out = append(out, domain.StaticRecord{
			SourceMMSI:     r.int("sourcemmsi"),
			ShipType:       int(r.intOr("shiptype", -1)),
			VesselGeometry: geometry(r),
		})
		return nil
	})
	return out, err
}

// ReadOcean loads one monthly wave-model file. The dpt and wlv columns are
// ignored.
func ReadOcean(path string) ([]domain.OceanRecord, error) {
	var out []domain.OceanRecord
	err := readTable(path, oceanColumns, func(r *row) error {
		out = append(out, domain.OceanRecord{
			Lat: r.float("lat"),
			Lon: r.float("lon"),
			TS:  r.int("ts"),
			Hs:  r.float("hs"),
			Dir: r.float("dir"),
			Lm:  r.float("lm"),
		})
		return nil
	})
	return out, err
}

// ReadWeatherObservations loads station observations.
func ReadWeatherObservations(path string) ([]domain.WeatherObservation, error) {
	var out []domain.WeatherObservation
	err := readTable(path, weatherColumns, func(r *row) error {
		out = append(out, domain.WeatherObservation{
			StationID:       r.int("id_station"),
			LocalTime:       r.unixTime("local_time"),
			WindDirectionID: r.float("id_windDirection"),
			Ff:              r.float("Ff"),
			P:               r.float("P"),
			T:               r.float("T"),
		})
		return nil
	})
	return out, err
}

// ReadStations loads the weather station table.
func ReadStations(path string) ([]domain.Station, error) {
	var out []domain.Station
	err := readTable(path, stationColumns, func(r *row) error {
		out = append(out, domain.Station{
			ID:        r.int("id_station"),
			Latitude:  r.float("latitude"),
			Longitude: r.float("longitude"),
		})
		return nil
	})
	return out, err
}

func geometry(r *row) domain.VesselGeometry {
	return domain.VesselGeometry{
		ToBow:       r.float("tobow"),
		ToStern:     r.float("tostern"),
		ToStarboard: r.float("tostarboard"),
		ToPort:      r.float("toport"),
		Draught:     r.float("draught"),
	}
}
