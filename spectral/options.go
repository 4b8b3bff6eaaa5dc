// SPDX-License-Identifier: MIT

package spectral

import (
	"errors"
	"fmt"
)

// DefaultTolerance is the Jacobi convergence threshold relative to the
// largest entry of M (or absolute when that entry is below 1).
const DefaultTolerance = 1e-13

// minRotations is the rotation budget floor for small k.
const minRotations = 1000

// ErrOptionViolation is returned when an Option carries an invalid value.
var ErrOptionViolation = errors.New("spectral: option violation")

// Option configures Estimate.
type Option func(*options)

type options struct {
	tolerance    float64
	maxRotations int // 0 means "derive from k"
}

func defaultOptions() options {
	return options{tolerance: DefaultTolerance}
}

// WithTolerance sets the relative Jacobi convergence threshold. Must be > 0.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

// WithMaxRotations caps the number of Jacobi rotations. Must be ≥ 0; zero
// restores the default of max(1000, 50·k²).
func WithMaxRotations(n int) Option {
	return func(o *options) { o.maxRotations = n }
}

func (o options) validate() error {
	if !(o.tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be > 0 (got %g)", ErrOptionViolation, o.tolerance)
	}
	if o.maxRotations < 0 {
		return fmt.Errorf("%w: max rotations must be ≥ 0 (got %d)", ErrOptionViolation, o.maxRotations)
	}

	return nil
}

func (o options) rotations(k int) int {
	if o.maxRotations > 0 {
		return o.maxRotations
	}
	if n := 50 * k * k; n > minRotations {
		return n
	}

	return minRotations
}
