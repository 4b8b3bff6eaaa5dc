// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spectrank/matrix"
)

func TestSub(t *testing.T) {
	a := MustFromRows(t, [][]float64{{5, 6}, {7, 8}})
	b := MustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	d, err := matrix.Sub(a, b)
	require.NoError(t, err)
	AssertEqualRows(t, d, [][]float64{{4, 4}, {4, 4}}, 0)

	_, err = matrix.Sub(a, MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(nil, b)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMul(t *testing.T) {
	a := MustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := MustFromRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})
	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	AssertEqualRows(t, p, [][]float64{{58, 64}, {139, 154}}, 0)

	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestMul_InterfaceFallback checks that a wrapper hiding *Dense gives the
// same product as the bare matrix.
func TestMul_InterfaceFallback(t *testing.T) {
	a := MustFromRows(t, [][]float64{{1, 0, 2}, {0, 3, 0}})
	b := MustFromRows(t, [][]float64{{1}, {2}, {3}})
	p1, err := matrix.Mul(a, b)
	require.NoError(t, err)
	p2, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)
	AssertEqualRows(t, p2, [][]float64{{MustAt(t, p1, 0, 0)}, {MustAt(t, p1, 1, 0)}}, 0)
}

func TestTransposeScaleMatVec(t *testing.T) {
	a := MustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	AssertEqualRows(t, at, [][]float64{{1, 4}, {2, 5}, {3, 6}}, 0)

	s, err := matrix.Scale(a, -0.5)
	require.NoError(t, err)
	AssertEqualRows(t, s, [][]float64{{-0.5, -1, -1.5}, {-2, -2.5, -3}}, 0)
	_, err = matrix.Scale(a, math.NaN())
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	y, err := matrix.MatVec(a, []float64{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)
	_, err = matrix.MatVec(a, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestEigen_Diagonal(t *testing.T) {
	m := MustFromRows(t, [][]float64{{3, 0}, {0, 1}})
	vals, vecs, err := matrix.Eigen(m, 1e-12, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, vals)
	AssertEqualRows(t, vecs, [][]float64{{1, 0}, {0, 1}}, 0)
}

func TestEigen_Reconstructs(t *testing.T) {
	m := MustFromRows(t, [][]float64{
		{4, 1, 2},
		{1, 3, 0},
		{2, 0, 5},
	})
	vals, q, err := matrix.Eigen(m, 1e-13, 1000)
	require.NoError(t, err)
	require.Len(t, vals, 3)

	// Q·diag(vals)·Qᵀ == m and Qᵀ·Q == I.
	n := 3
	var i, j, k int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			var rec, orth float64
			for k = 0; k < n; k++ {
				rec += MustAt(t, q, i, k) * vals[k] * MustAt(t, q, j, k)
				orth += MustAt(t, q, k, i) * MustAt(t, q, k, j)
			}
			assert.InDelta(t, MustAt(t, m, i, j), rec, 1e-10, "reconstruction [%d,%d]", i, j)
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, orth, 1e-10, "orthogonality [%d,%d]", i, j)
		}
	}

	// Trace is preserved.
	sum := vals[0] + vals[1] + vals[2]
	assert.InDelta(t, 12.0, sum, 1e-10)
}

func TestEigen_KnownSpectrum(t *testing.T) {
	// [[2,1],[1,2]] has eigenvalues 1 and 3.
	vals, _, err := matrix.Eigen(MustFromRows(t, [][]float64{{2, 1}, {1, 2}}), 1e-14, 10)
	require.NoError(t, err)
	sort.Float64s(vals)
	assert.InDelta(t, 1.0, vals[0], closeTol)
	assert.InDelta(t, 3.0, vals[1], closeTol)
}

func TestEigen_Errors(t *testing.T) {
	_, _, err := matrix.Eigen(MustFromRows(t, [][]float64{{1, 2}, {0, 1}}), 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	_, _, err = matrix.Eigen(MustDense(t, 2, 3), 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, _, err = matrix.Eigen(nil, 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	// No rotations allowed on a non-diagonal input.
	_, _, err = matrix.Eigen(MustFromRows(t, [][]float64{{2, 1}, {1, 2}}), 1e-12, 0)
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

func TestSolve(t *testing.T) {
	a := MustFromRows(t, [][]float64{{4, 1, 0}, {1, 3, 1}, {0, 1, 2}})
	x, err := matrix.Solve(hide{a}, []float64{2, -2, 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -2, 3}, x, closeTol)

	// a zero leading pivot is not pivoted away
	_, err = matrix.Solve(MustFromRows(t, [][]float64{{0, 1}, {1, 0}}), []float64{1, 1})
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Solve(a, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Solve(MustDense(t, 2, 3), []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Solve(MustFromRows(t, [][]float64{{math.NaN(), 0}, {0, 1}}), []float64{1, 1})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
