// SPDX-License-Identifier: MIT

// Package pairwise turns score-table rows into oriented pairwise comparison
// records and aggregates them into the incidence/outcome matrices the
// spectral estimator consumes.
//
// Records are emitted context by context (row order), and within a row in
// lexicographic (i<j) pair order, so the matrices are reproducible for any
// given table.
package pairwise

import (
	"errors"
	"fmt"
)

// Direction states whether a larger or a smaller raw score wins a comparison.
type Direction int

const (
	// HigherIsBetter: the larger value wins.
	HigherIsBetter Direction = iota + 1
	// LowerIsBetter: the smaller value wins.
	LowerIsBetter
)

// Direction spellings accepted by ParseDirection.
const (
	DirectionHigher = "higher"
	DirectionLower  = "lower"
)

// ErrUnknownDirection is returned by ParseDirection for any other spelling.
var ErrUnknownDirection = errors.New("pairwise: direction must be \"higher\" or \"lower\"")

// ParseDirection maps "higher"/"lower" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case DirectionHigher:
		return HigherIsBetter, nil
	case DirectionLower:
		return LowerIsBetter, nil
	default:
		return 0, fmt.Errorf("%w (got %q)", ErrUnknownDirection, s)
	}
}

// DirectionFromBigBetter maps the boolean form used on the command line.
func DirectionFromBigBetter(bigBetter bool) Direction {
	if bigBetter {
		return HigherIsBetter
	}

	return LowerIsBetter
}

// Valid reports whether d is one of the two defined directions.
func (d Direction) Valid() bool { return d == HigherIsBetter || d == LowerIsBetter }

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case HigherIsBetter:
		return DirectionHigher
	case LowerIsBetter:
		return DirectionLower
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
