package domain

import "fmt"

// Index answers per-axis nearest-neighbour lookups over a reference dataset.
//
// Latitude, longitude and time are matched independently, each to its own
// nearest column value, and the three values must then co-occur in one row.
// This is deliberately not a joint nearest-neighbour search: on sparse grids
// it yields more misses, but the output is stable for ambiguous rows.
type Index[R any] struct {
	rows  []R
	lat   *Column[float64]
	lon   *Column[float64]
	ts    *Column[int64]
	rowOf map[Position]int // first row holding each exact (lat, lon, ts)
}

// NewIndex builds an Index over rows using pos to read each row's
// coordinates and timestamp. Rows are retained and must not be mutated.
func NewIndex[R any](rows []R, pos func(R) Position) *Index[R] {
	lats := make([]float64, len(rows))
	lons := make([]float64, len(rows))
	tss := make([]int64, len(rows))
	rowOf := make(map[Position]int, len(rows))

	for i, r := range rows {
		p := pos(r)
		lats[i], lons[i], tss[i] = p.Lat, p.Lon, p.TS
		if p.Lat != p.Lat || p.Lon != p.Lon {
			continue // NaN coordinates can never be looked up
		}
		if _, ok := rowOf[p]; !ok {
			rowOf[p] = i
		}
	}

	return &Index[R]{
		rows:  rows,
		lat:   NewColumn(lats),
		lon:   NewColumn(lons),
		ts:    NewColumn(tss),
		rowOf: rowOf,
	}
}

// Len reports the number of reference rows.
func (ix *Index[R]) Len() int { return len(ix.rows) }

// Nearest resolves the per-axis nearest latitude, longitude and timestamp.
func (ix *Index[R]) Nearest(p Position) (Position, error) {
	lat, err := ix.lat.Nearest(p.Lat)
	if err != nil {
		return Position{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := ix.lon.Nearest(p.Lon)
	if err != nil {
		return Position{}, fmt.Errorf("longitude: %w", err)
	}
	ts, err := ix.ts.Nearest(p.TS)
	if err != nil {
		return Position{}, fmt.Errorf("time: %w", err)
	}
	return Position{Lat: lat, Lon: lon, TS: ts}, nil
}

// Lookup returns the reference row whose coordinates and timestamp equal the
// per-axis nearest values for p. Returns ErrEmptyInput for an empty dataset
// and ErrNoTripleMatch when the nearest values do not share a row.
func (ix *Index[R]) Lookup(p Position) (R, error) {
	var zero R
	near, err := ix.Nearest(p)
	if err != nil {
		return zero, err
	}
	i, ok := ix.rowOf[near]
	if !ok {
		return zero, fmt.Errorf("lookup lat=%g lon=%g ts=%d: %w", near.Lat, near.Lon, near.TS, ErrNoTripleMatch)
	}
	return ix.rows[i], nil
}
