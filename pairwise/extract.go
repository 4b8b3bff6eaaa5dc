// SPDX-License-Identifier: MIT

package pairwise

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientCompetitors is returned when a row has fewer than two competitors.
var ErrInsufficientCompetitors = errors.New("pairwise: at least two competitors are required")

// Record is one oriented comparison: Winner came out ahead of Loser in
// comparison context Context (the score-table row index).
type Record struct {
	Winner  int
	Loser   int
	Context int
}

// Extract emits one Record per unordered pair (i<j) of row where both values
// are present.
//
// The winner is decided by the strict test row[i] > row[j]:
//   - HigherIsBetter: true → i wins, otherwise j wins.
//   - LowerIsBetter:  true → j wins, otherwise i wins.
//
// An exact tie therefore goes to j under HigherIsBetter and to i under
// LowerIsBetter; tied pairs are kept, not dropped.
// Records carry Context 0; Aggregate stamps the row index.
func Extract(row []float64, dir Direction) ([]Record, error) {
	k := len(row)
	if k < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientCompetitors, k)
	}
	if !dir.Valid() {
		return nil, fmt.Errorf("Extract: %w (got %s)", ErrUnknownDirection, dir)
	}

	out := make([]Record, 0, k*(k-1)/2)
	var (
		i, j    int
		greater bool
	)
	for i = 0; i < k-1; i++ {
		if math.IsNaN(row[i]) {
			continue
		}
		for j = i + 1; j < k; j++ {
			if math.IsNaN(row[j]) {
				continue
			}
			greater = row[i] > row[j]
			if greater == (dir == HigherIsBetter) {
				out = append(out, Record{Winner: i, Loser: j})
			} else {
				out = append(out, Record{Winner: j, Loser: i})
			}
		}
	}

	return out, nil
}
