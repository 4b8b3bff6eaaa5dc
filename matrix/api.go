// SPDX-License-Identifier: MIT
// Package matrix - public API facades.
//
// Purpose:
//   - Thin entry points composed from the kernels in impl_linear_algebra.go.
//   - No loop logic is duplicated here except where a facade needs a
//     column-oriented walk the kernels do not offer.

package matrix

import "math"

// NewIdentity returns I_n (n×n identity).
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	id, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		id.data[i*n+i] = 1.0
	}

	return id, nil
}

// Symmetrize returns (m + mᵀ)/2.
// Complexity: O(n^2).
func Symmetrize(m Matrix) (Matrix, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}
	mt, err := Transpose(m)
	if err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}
	dt := mt.(*Dense)
	res, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}
	for i := range res.data {
		res.data[i] = 0.5 * (d.data[i] + dt.data[i])
	}

	return res, nil
}

// GramRows returns A·Aᵀ. The product is exactly symmetric because both
// triangles accumulate identical terms in identical order.
// Complexity: O(r^2*c).
func GramRows(a Matrix) (Matrix, error) {
	at, err := Transpose(a)
	if err != nil {
		return nil, matrixErrorf("GramRows", err)
	}
	g, err := Mul(a, at)
	if err != nil {
		return nil, matrixErrorf("GramRows", err)
	}

	return g, nil
}

// ColSums returns c where c[j] = Σ_i m[i,j].
// Walks rows in order so tall incidence matrices are read sequentially.
// Complexity: O(r*c).
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("ColSums", err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf("ColSums", err)
	}
	out := make([]float64, d.c)
	var i, j, base int
	for i = 0; i < d.r; i++ {
		base = i * d.c
		for j = 0; j < d.c; j++ {
			out[j] += d.data[base+j]
		}
	}

	return out, nil
}

// Column returns a copy of column j.
// Complexity: O(r).
func Column(m Matrix, j int) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Column", err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf("Column", err)
	}
	if j < 0 || j >= d.c {
		return nil, matrixErrorf("Column", denseErrorf(ctxAt, 0, j, ErrOutOfRange))
	}
	out := make([]float64, d.r)
	for i := 0; i < d.r; i++ {
		out[i] = d.data[i*d.c+j]
	}

	return out, nil
}

// MaxAbs returns max |m[i,j]|; NaN entries propagate as NaN.
// Complexity: O(r*c).
func MaxAbs(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf("MaxAbs", err)
	}
	d, err := toDense(m)
	if err != nil {
		return 0, matrixErrorf("MaxAbs", err)
	}
	out := NormZero
	for _, v := range d.data {
		if math.IsNaN(v) {
			return math.NaN(), nil
		}
		if a := math.Abs(v); a > out {
			out = a
		}
	}

	return out, nil
}
