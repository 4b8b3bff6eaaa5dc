// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels behind the
// spectral ranking estimator.
//
// The package offers:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set.
//   - Kernels: Sub, Mul, Transpose, Scale, Symmetrize, ColSums, MatVec.
//   - Eigen, a deterministic Jacobi eigen-decomposition for symmetric input.
//     For a symmetric positive semi-definite matrix the eigenvalues are also
//     its singular values, which is how the estimator locates the null
//     direction of (P−I)(P−I)ᵀ.
//   - Solve, an LU linear solve without pivoting, used to refine that
//     null direction.
//
// Kernels never mutate their inputs, use fixed loop orders, and return the
// sentinels from errors.go wrapped with an operation tag.
//
// Matrices here are small (competitors × competitors) or tall and sparse
// (comparison records × competitors); the *Dense fast paths operate on the
// flat backing slice directly.
package matrix
