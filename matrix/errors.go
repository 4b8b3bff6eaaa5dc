// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation tag
// via matrixErrorf) and callers match them with errors.Is. No kernel panics on
// user-triggered conditions.

package matrix

import "errors"

// Every message is prefixed with "matrix: ..." so that wrapped chains coming
// out of the ranking pipeline stay greppable.
//
// ERROR PRIORITY (enforced in tests):
// nil -> shape/dimension -> NaN/Inf -> symmetry -> convergence.

var (
	// ErrInvalidDimensions is returned when requested dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// At/Set return this instead of panicking.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes
	// (Sub on different shapes, Mul with a.Cols != b.Rows, non-square input).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNaNInf signals a NaN or ±Inf where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrAsymmetry signals that a matrix expected to be symmetric is not,
	// within the given tolerance.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within tol")

	// ErrMatrixEigenFailed indicates that the Jacobi routine did not reach the
	// requested off-diagonal tolerance within the rotation budget.
	ErrMatrixEigenFailed = errors.New("matrix: eigen decomposition failed")

	// ErrSingular is returned when a zero pivot is met during LU elimination.
	ErrSingular = errors.New("matrix: singular matrix")
)
