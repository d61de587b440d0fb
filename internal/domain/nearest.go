package domain

import (
	"fmt"
	"sort"
)

// Numeric is the set of column types the nearest-value search operates on:
// coordinates are float64, timestamps are unix seconds.
type Numeric interface {
	~float64 | ~int64
}

// Nearest returns the element of values closest to target. Ties resolve to the
// element that occurs first. NaN elements are never candidates.
// Returns ErrEmptyInput when values has no candidate.
func Nearest[T Numeric](values []T, target T) (T, error) {
	best := -1
	var bestDist T
	for i, v := range values {
		if v != v { // NaN
			continue
		}
		d := absDiff(v, target)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		var zero T
		return zero, fmt.Errorf("nearest of %d values: %w", len(values), ErrEmptyInput)
	}
	return values[best], nil
}

func absDiff[T Numeric](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// Column is a read-only sorted view of a reference column that answers
// nearest-value queries in O(log n) with the same result as Nearest,
// including first-occurrence tie-breaking.
type Column[T Numeric] struct {
	values []T   // distinct values, ascending
	first  []int // first[i] is the position of values[i]'s first occurrence
	head   int   // index into values of the earliest occurring value
}

// NewColumn builds a Column over values. The input slice is not retained.
func NewColumn[T Numeric](values []T) *Column[T] {
	firstSeen := make(map[T]int, len(values))
	for i, v := range values {
		if v != v {
			continue
		}
		if _, ok := firstSeen[v]; !ok {
			firstSeen[v] = i
		}
	}

	c := &Column[T]{
		values: make([]T, 0, len(firstSeen)),
		first:  make([]int, 0, len(firstSeen)),
	}
	for v := range firstSeen {
		c.values = append(c.values, v)
	}
	sort.Slice(c.values, func(i, j int) bool { return c.values[i] < c.values[j] })
	for i, v := range c.values {
		c.first = append(c.first, firstSeen[v])
		if c.first[i] < c.first[c.head] {
			c.head = i
		}
	}
	return c
}

// Len reports the number of distinct values in the column.
func (c *Column[T]) Len() int { return len(c.values) }

// Nearest returns the column value closest to target.
func (c *Column[T]) Nearest(target T) (T, error) {
	n := len(c.values)
	if n == 0 {
		var zero T
		return zero, fmt.Errorf("nearest in empty column: %w", ErrEmptyInput)
	}

	if target != target {
		// Every distance is NaN, so the linear scan keeps its first candidate.
		return c.values[c.head], nil
	}

	// hi is the first value >= target; lo is the value just below it.
	hi := sort.Search(n, func(i int) bool { return c.values[i] >= target })
	switch {
	case hi == 0:
		return c.values[0], nil
	case hi == n:
		return c.values[n-1], nil
	}
	lo := hi - 1

	dLo := absDiff(c.values[lo], target)
	dHi := absDiff(c.values[hi], target)
	switch {
	case dLo < dHi:
		return c.values[lo], nil
	case dHi < dLo:
		return c.values[hi], nil
	case c.first[lo] < c.first[hi]:
		return c.values[lo], nil
	default:
		return c.values[hi], nil
	}
}
