package domain

import "fmt"

// Bound is an inclusive [Low, High] range of unix-second timestamps.
type Bound struct {
	Low  int64 `json:"low" yaml:"low"`
	High int64 `json:"high" yaml:"high"`
}

// Contains reports whether ts lies within the bound, both ends inclusive.
func (b Bound) Contains(ts int64) bool {
	return ts >= b.Low && ts <= b.High
}

// BoundOf derives the [min, max] bound of a timestamp column.
// Returns ErrEmptyInput when the column is empty.
func BoundOf(timestamps []int64) (Bound, error) {
	if len(timestamps) == 0 {
		return Bound{}, fmt.Errorf("bound of timestamps: %w", ErrEmptyInput)
	}
	b := Bound{Low: timestamps[0], High: timestamps[0]}
	for _, ts := range timestamps[1:] {
		if ts < b.Low {
			b.Low = ts
		}
		if ts > b.High {
			b.High = ts
		}
	}
	return b, nil
}

// Locate returns the index of the first bound containing ts.
// Returns ErrNoPartition when ts falls outside every bound, including gaps
// between consecutive partitions.
func Locate(bounds []Bound, ts int64) (int, error) {
	for i, b := range bounds {
		if b.Contains(ts) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("locate ts=%d among %d partitions: %w", ts, len(bounds), ErrNoPartition)
}
