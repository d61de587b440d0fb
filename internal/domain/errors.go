package domain

import "errors"

// Row-local match failures. They are expected on sparse reference grids and
// become null fields on the enriched row rather than failing the run.
var (
	// ErrEmptyInput is returned when a reference column has no candidate values.
	ErrEmptyInput = errors.New("empty reference input")

	// ErrNoPartition is returned when no partition bound contains a timestamp.
	ErrNoPartition = errors.New("no partition contains timestamp")

	// ErrNoTripleMatch is returned when the per-axis nearest latitude,
	// longitude and timestamp do not co-occur in a single reference row.
	ErrNoTripleMatch = errors.New("nearest lat/lon/time do not co-occur in one row")
)

// IsMiss reports whether err is a row-local match failure.
func IsMiss(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrNoPartition) ||
		errors.Is(err, ErrNoTripleMatch)
}

// MissReason maps a match error to the short outcome label used in metrics
// and logs: "matched", "empty", "no_partition", "no_match" or "error".
func MissReason(err error) string {
	switch {
	case err == nil:
		return OutcomeMatched
	case errors.Is(err, ErrNoPartition):
		return OutcomeNoPartition
	case errors.Is(err, ErrNoTripleMatch):
		return OutcomeNoMatch
	case errors.Is(err, ErrEmptyInput):
		return OutcomeEmpty
	default:
		return OutcomeError
	}
}

// Match outcome labels.
const (
	OutcomeMatched     = "matched"
	OutcomeEmpty       = "empty"
	OutcomeNoPartition = "no_partition"
	OutcomeNoMatch     = "no_match"
	OutcomeError       = "error"
)
