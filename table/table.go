// SPDX-License-Identifier: MIT

// Package table holds the score table the ranking engine consumes: an
// ordered competitor set (columns) and n comparison contexts (rows) with
// missing entries encoded as NaN.
//
// Column order is the competitor order for the whole pipeline and is never
// re-sorted.
package table

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooFewCompetitors is returned when fewer than two competitor columns remain.
	ErrTooFewCompetitors = errors.New("table: at least two numeric competitor columns are required")

	// ErrEmptyTable is returned when the table has no comparison rows.
	ErrEmptyTable = errors.New("table: no comparison rows")

	// ErrDuplicateCompetitor is returned when two columns share an identifier.
	ErrDuplicateCompetitor = errors.New("table: duplicate competitor identifier")

	// ErrRaggedRow is returned when a row's width differs from the competitor count.
	ErrRaggedRow = errors.New("table: row width does not match competitor count")

	// ErrNonFinite is returned for ±Inf cells; NaN is reserved for "missing".
	ErrNonFinite = errors.New("table: infinite score")
)

// Table is an n×k score table. Rows[i][j] is competitor j's score in
// context i, or NaN when missing.
type Table struct {
	Competitors []string
	Rows        [][]float64
}

// New builds a Table and validates it. rows are used as given (not copied).
func New(competitors []string, rows [][]float64) (*Table, error) {
	t := &Table{Competitors: competitors, Rows: rows}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// K returns the number of competitors.
func (t *Table) K() int { return len(t.Competitors) }

// N returns the number of comparison contexts.
func (t *Table) N() int { return len(t.Rows) }

// Validate checks the shape contract: k ≥ 2 unique identifiers, n ≥ 1 rows
// of width k, no infinite cells.
func (t *Table) Validate() error {
	if len(t.Competitors) < 2 {
		return fmt.Errorf("%w (got %d)", ErrTooFewCompetitors, len(t.Competitors))
	}
	seen := make(map[string]int, len(t.Competitors))
	for j, id := range t.Competitors {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q at columns %d and %d", ErrDuplicateCompetitor, id, prev, j)
		}
		seen[id] = j
	}
	if len(t.Rows) == 0 {
		return ErrEmptyTable
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Competitors) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRow, i, len(row), len(t.Competitors))
		}
		for j, v := range row {
			if math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d, competitor %q", ErrNonFinite, i, t.Competitors[j])
			}
		}
	}

	return nil
}

// Negated returns a copy with every present score negated. Paired with the
// opposite direction it describes the same comparisons.
func (t *Table) Negated() *Table {
	rows := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				rows[i][j] = v
				continue
			}
			rows[i][j] = -v
		}
	}
	ids := append([]string(nil), t.Competitors...)

	return &Table{Competitors: ids, Rows: rows}
}
