package domain

import "fmt"

// OceanPartition is one month (or any contiguous period) of wave-model data
// with the time bound derived from its own samples.
type OceanPartition struct {
	Name  string
	Bound Bound
	index *Index[OceanRecord]
}

// NewOceanPartition indexes rows and derives the partition bound from their
// timestamps. Returns ErrEmptyInput when rows is empty.
func NewOceanPartition(name string, rows []OceanRecord) (OceanPartition, error) {
	tss := make([]int64, len(rows))
	for i, r := range rows {
		tss[i] = r.TS
	}
	bound, err := BoundOf(tss)
	if err != nil {
		return OceanPartition{}, fmt.Errorf("ocean partition %q: %w", name, err)
	}
	return OceanPartition{
		Name:  name,
		Bound: bound,
		index: NewIndex(rows, OceanRecord.Position),
	}, nil
}

// NewBoundedOceanPartition indexes rows under an explicitly declared bound.
// Rows outside the bound are kept but only reachable for timestamps inside it.
func NewBoundedOceanPartition(name string, bound Bound, rows []OceanRecord) OceanPartition {
	return OceanPartition{
		Name:  name,
		Bound: bound,
		index: NewIndex(rows, OceanRecord.Position),
	}
}

// Len reports the number of samples in the partition.
func (p OceanPartition) Len() int {
	if p.index == nil {
		return 0
	}
	return p.index.Len()
}

// OceanMatcher finds the wave conditions nearest to an AIS observation.
// It is read-only after construction and safe for concurrent use.
type OceanMatcher struct {
	partitions []OceanPartition
	bounds     []Bound
}

// NewOceanMatcher creates a matcher over partitions, checked in the given order.
func NewOceanMatcher(partitions ...OceanPartition) *OceanMatcher {
	m := &OceanMatcher{
		partitions: partitions,
		bounds:     make([]Bound, len(partitions)),
	}
	for i, p := range partitions {
		m.bounds[i] = p.Bound
	}
	return m
}

// Partitions returns the matcher's partitions in lookup order.
func (m *OceanMatcher) Partitions() []OceanPartition {
	return m.partitions
}

// Match selects the partition containing pos.TS and returns the reading of
// the row holding the per-axis nearest latitude, longitude and timestamp.
// All failures satisfy IsMiss.
func (m *OceanMatcher) Match(pos Position) (OceanReading, error) {
	i, err := Locate(m.bounds, pos.TS)
	if err != nil {
		return OceanReading{}, fmt.Errorf("ocean match: %w", err)
	}
	part := m.partitions[i]
	if part.index == nil {
		return OceanReading{}, fmt.Errorf("ocean match in %s: %w", part.Name, ErrEmptyInput)
	}
	row, err := part.index.Lookup(pos)
	if err != nil {
		return OceanReading{}, fmt.Errorf("ocean match in %s: %w", part.Name, err)
	}
	return OceanReading{Hs: row.Hs, Dir: row.Dir, Lm: row.Lm}, nil
}
