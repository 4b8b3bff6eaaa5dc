// SPDX-License-Identifier: MIT

package bootstrap

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmptySample is returned by Quantile for an empty input.
	ErrEmptySample = errors.New("bootstrap: empty sample")

	// ErrQuantileRange is returned when q is outside [0,1].
	ErrQuantileRange = errors.New("bootstrap: quantile level outside [0,1]")
)

// Quantile returns the empirical q-quantile of xs with linear interpolation
// between order statistics: position h = (n−1)·q, value
// x[⌊h⌋] + (h−⌊h⌋)·(x[⌊h⌋+1] − x[⌊h⌋]). xs is not modified.
func Quantile(xs []float64, q float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySample
	}
	if !(q >= 0 && q <= 1) {
		return 0, fmt.Errorf("%w (got %g)", ErrQuantileRange, q)
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)

	h := float64(len(s)-1) * q
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= len(s) {
		return s[lo], nil
	}
	frac := h - float64(lo)

	return s[lo] + frac*(s[hi]-s[lo]), nil
}
