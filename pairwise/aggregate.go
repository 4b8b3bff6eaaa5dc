// SPDX-License-Identifier: MIT

package pairwise

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/spectrank/matrix"
)

// ErrNoComparisons is returned when no row yields a single comparable pair.
var ErrNoComparisons = errors.New("pairwise: no comparable pairs in any row")

// Comparisons is the aggregated comparison data for one run.
//
// Incidence (L×k) has a 1 in both participants' columns of each record.
// Outcome (L×k) has a single 1 per record, in the winner's column: that is
// the column the random walk moves into, so ability mass accumulates on
// competitors that come out ahead.
type Comparisons struct {
	K         int
	Records   []Record
	Incidence *matrix.Dense
	Outcome   *matrix.Dense
	// Contexts counts the rows that contributed at least one record.
	Contexts int
}

// L returns the number of records.
func (c *Comparisons) L() int { return len(c.Records) }

// Aggregate runs Extract on every row and stacks the records in row order,
// so records from one context stay contiguous. Column j of both matrices is
// competitor j of the input order.
//
// Errors: ErrInsufficientCompetitors (k<2), ErrRowWidth, ErrNoComparisons.
func Aggregate(rows [][]float64, k int, dir Direction) (*Comparisons, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientCompetitors, k)
	}

	var (
		records  []Record
		contexts int
	)
	for i, row := range rows {
		if len(row) != k {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowWidth, i, len(row), k)
		}
		recs, err := Extract(row, dir)
		if err != nil {
			return nil, fmt.Errorf("Aggregate: row %d: %w", i, err)
		}
		if len(recs) == 0 {
			continue
		}
		contexts++
		for _, r := range recs {
			r.Context = i
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoComparisons
	}

	return FromRecords(records, k, contexts)
}

// ErrRowWidth is returned when a row's width differs from k.
var ErrRowWidth = errors.New("pairwise: row width does not match competitor count")

// FromRecords builds the incidence/outcome matrices for an explicit record
// list. Winner and Loser must be distinct indices in [0,k).
func FromRecords(records []Record, k, contexts int) (*Comparisons, error) {
	if len(records) == 0 {
		return nil, ErrNoComparisons
	}
	aa, err := matrix.NewDense(len(records), k)
	if err != nil {
		return nil, fmt.Errorf("FromRecords: %w", err)
	}
	ww, err := matrix.NewDense(len(records), k)
	if err != nil {
		return nil, fmt.Errorf("FromRecords: %w", err)
	}
	for l, r := range records {
		if r.Winner == r.Loser {
			return nil, fmt.Errorf("FromRecords: record %d compares competitor %d with itself: %w", l, r.Winner, matrix.ErrOutOfRange)
		}
		if err = aa.Set(l, r.Winner, 1); err != nil {
			return nil, fmt.Errorf("FromRecords: record %d: %w", l, err)
		}
		if err = aa.Set(l, r.Loser, 1); err != nil {
			return nil, fmt.Errorf("FromRecords: record %d: %w", l, err)
		}
		if err = ww.Set(l, r.Winner, 1); err != nil {
			return nil, fmt.Errorf("FromRecords: record %d: %w", l, err)
		}
	}

	return &Comparisons{K: k, Records: records, Incidence: aa, Outcome: ww, Contexts: contexts}, nil
}

// Degrees returns how many records each competitor takes part in.
func (c *Comparisons) Degrees() []int {
	out := make([]int, c.K)
	for _, r := range c.Records {
		out[r.Winner]++
		out[r.Loser]++
	}

	return out
}

// Wins returns how many records each competitor won.
func (c *Comparisons) Wins() []int {
	out := make([]int, c.K)
	for _, r := range c.Records {
		out[r.Winner]++
	}

	return out
}
