// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise and broadcast kernels used to assemble the transition and
//     influence matrices without per-call loop duplication.
//
// Determinism & Performance:
//   - Fixed loop orders (flat 0..n-1 or i→j).
//   - Dense fast-path operates on a single flat buffer (row-major).
//   - O(r*c) time and space; the only allocation is the output Dense.

package matrix

const (
	opHadamard  = "Hadamard"
	opScaleCols = "ScaleCols"
)

// Hadamard returns the element-wise product a∘b.
// Time: O(r*c). Space: O(r*c).
func Hadamard(a, b Matrix) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	out, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	for i := range out.data {
		out.data[i] = da.data[i] * db.data[i]
	}

	return out, nil
}

// ScaleCols computes out[i,j] = X[i,j] * scale[j].
// Time: O(r*c). Space: O(r*c).
//
// Dividing columns is ScaleCols with reciprocals; callers own the zero check.
func ScaleCols(X Matrix, scale []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	r, c := X.Rows(), X.Cols()
	if err := ValidateVecLen(scale, c); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	var i, j, base int
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			out.data[base+j] = d.data[base+j] * scale[j]
		}
	}

	return out, nil
}
