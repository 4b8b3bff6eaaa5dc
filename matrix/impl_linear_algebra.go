// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels used by the spectral
// estimator: subtraction, multiplication, transpose, scaling, mat-vec, a
// Jacobi eigen-decomposition for symmetric input and an LU linear solve.
//
// Notes:
//   - Every kernel validates through validators.go and wraps failures with an
//     op* tag via matrixErrorf, so errors read "Mul: matrix: dimension mismatch".
//   - Inputs are never mutated; each kernel allocates a fresh *Dense result.

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroPivot is the sentinel for detecting a zero pivot in Solve.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping.
const (
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opEigen     = "Eigen"
	opSolve     = "Solve"
)

// matrixErrorf wraps err with an operation tag, preserving the original error
// via %w. Only call it with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Sub returns a − b elementwise.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b).
//   - Stage 2: single flat loop over the materialised operands.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	for i := range res.data {
		res.data[i] = da.data[i] - db.data[i]
	}

	return res, nil
}

// Mul returns the matrix product a × b.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b). Allocate Dense(a.Rows, b.Cols).
//   - Stage 2: i→k→j loop over flat slices, skipping zero A[i,k].
//
// Determinism:
//   - Fixed loop order; the same operands always accumulate in the same order,
//     so A·Aᵀ comes out exactly symmetric.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*n*c), Space O(r*c). Incidence-shaped operands are
// mostly zeros, which the skip turns into O(nnz*c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(da.r, db.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, k, j                            int
		rowOffsetA, rowOffsetB, rowOffsetR int
		av                                 float64
	)
	for i = 0; i < da.r; i++ {
		rowOffsetA = i * da.c
		rowOffsetR = i * db.c
		for k = 0; k < da.c; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * db.c
			for j = 0; j < db.c; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a new *Dense.
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(d.c, d.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < d.r; i++ {
		for j = 0; j < d.c; j++ {
			res.data[j*d.r+i] = d.data[i*d.c+j]
		}
	}

	return res, nil
}

// Scale returns alpha*m. alpha must be finite.
// Errors: ErrNilMatrix, ErrNaNInf (non-finite alpha).
// Complexity: Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for i, v := range d.data {
		res.data[i] = alpha * v
	}

	return res, nil
}

// MatVec returns y = m·x with len(x) == m.Cols().
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, d.r)
	var i, j, base int
	for i = 0; i < d.r; i++ {
		base = i * d.c
		for j = 0; j < d.c; j++ {
			y[i] += d.data[base+j] * x[j]
		}
	}

	return y, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via
// Jacobi rotations.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol) and ValidateFinite(m).
//   - Stage 2: repeatedly pick (p,q) with the largest |A[p,q]| in i→j order
//     and apply a Jacobi rotation, accumulating it into Q.
//   - Stage 3: confirm max off-diagonal ≤ tol; read eigenvalues off the diagonal.
//
// Inputs:
//   - m: symmetric Matrix (within tol).
//   - tol: absolute off-diagonal convergence threshold.
//   - maxIter: rotation budget.
//
// Returns:
//   - []float64: eigenvalues in diagonal order (unsorted).
//   - Matrix: Q (*Dense) whose columns are the unit-norm eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrNaNInf,
//     ErrMatrixEigenFailed (max off-diagonal > tol after maxIter rotations).
//
// Determinism:
//   - Fixed pivot scan and update order; identical input gives identical output.
//
// Complexity:
//   - Time O(maxIter * n^2) (pivot scan dominates), Space O(n^2).
//
// Notes:
//   - Eigenvalue order is whatever the rotations leave on the diagonal; callers
//     that need a particular eigenpair must select it by value.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	tol = math.Abs(tol)

	n := m.Rows()
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	a := src.Clone().(*Dense) // working copy; m stays untouched
	q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		q.data[i*n+i] = 1.0
	}

	var (
		iter               int
		p, r               int     // current pivot (p,r)
		maxOff, off        float64 // largest |A[i,j]| above the diagonal
		app, arr, apr      float64
		aip, air, qip, qir float64
		newIP, newIR       float64
		theta, t, c, s     float64
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: find pivot (p,r) maximizing |A[p,r]|
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, r = off, i, j
				}
			}
		}
		// J.2: converged
		if maxOff <= tol {
			break
		}

		// J.3: rotation parameters
		app = a.data[p*n+p]
		arr = a.data[r*n+r]
		apr = a.data[p*n+r]
		theta = (arr - app) / (2 * apr)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.4: rotate rows/cols p and r of A
		for i = 0; i < n; i++ {
			if i == p || i == r {
				continue
			}
			aip = a.data[i*n+p]
			air = a.data[i*n+r]
			newIP = c*aip - s*air
			newIR = s*aip + c*air
			a.data[i*n+p], a.data[p*n+i] = newIP, newIP
			a.data[i*n+r], a.data[r*n+i] = newIR, newIR
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
		a.data[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		// J.5: accumulate into Q
		for i = 0; i < n; i++ {
			qip = q.data[i*n+p]
			qir = q.data[i*n+r]
			q.data[i*n+p] = c*qip - s*qir
			q.data[i*n+r] = s*qip + c*qir
		}
	}

	// Final convergence check.
	maxOff = NormZero
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if off = math.Abs(a.data[i*n+j]); off > maxOff {
				maxOff = off
			}
		}
	}
	if maxOff > tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// Solve returns x with m·x = b using a Doolittle LU factorisation (unit lower
// L, no pivoting) followed by forward and backward substitution.
//
// Implementation:
//   - Stage 1: validate m (square, finite) and len(b) == n.
//   - Stage 2: for i=0..n-1 build row i of U, then column i of L.
//   - Stage 3: L·y = b forward, U·x = y backward.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf, ErrSingular.
//
// Determinism:
//   - Fixed elimination order; identical input gives identical output.
//
// Complexity: Time O(n^3), Space O(n^2).
//
// Notes:
//   - Without pivoting the kernel is stable only for inputs whose leading
//     principal minors are well away from zero, such as column diagonally
//     dominant matrices.
func Solve(m Matrix, b []float64) ([]float64, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := m.Rows()
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	a, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	l := make([]float64, n*n)
	u := make([]float64, n*n)
	var (
		i, j, k      int
		sum, pivot   float64
		baseI, baseJ int
	)
	for i = 0; i < n; i++ {
		l[i*n+i] = 1.0
	}
	for i = 0; i < n; i++ {
		baseI = i * n
		for j = i; j < n; j++ {
			sum = NormZero
			for k = 0; k < i; k++ {
				sum += l[baseI+k] * u[k*n+j]
			}
			u[baseI+j] = a.data[baseI+j] - sum
		}
		pivot = u[baseI+i]
		if pivot == ZeroPivot {
			return nil, matrixErrorf(opSolve, ErrSingular)
		}
		for j = i + 1; j < n; j++ {
			sum = NormZero
			baseJ = j * n
			for k = 0; k < i; k++ {
				sum += l[baseJ+k] * u[k*n+i]
			}
			l[baseJ+i] = (a.data[baseJ+i] - sum) / pivot
		}
	}

	y := make([]float64, n)
	for i = 0; i < n; i++ {
		sum = NormZero
		baseI = i * n
		for k = 0; k < i; k++ {
			sum += l[baseI+k] * y[k]
		}
		y[i] = b[i] - sum
	}
	x := make([]float64, n)
	for i = n - 1; i >= 0; i-- {
		sum = NormZero
		baseI = i * n
		for k = i + 1; k < n; k++ {
			sum += u[baseI+k] * x[k]
		}
		x[i] = (y[i] - sum) / u[baseI+i]
	}

	return x, nil
}
