// SPDX-License-Identifier: MIT

// Package spectral implements the vanilla spectral ranking estimator and its
// asymptotic variance terms.
//
// The comparison records define a random walk on competitors in which a step
// from i moves to j with probability proportional to how often j beat i.
// Its stationary distribution pihat puts more mass on stronger competitors;
// theta = log(pihat) − mean(log(pihat)) is the latent ability score.
//
// Steps of Estimate:
//  1. dval = 2 · (largest per-competitor comparison count).
//  2. P[i,j] = Σ_r aa[r,i]·aa[r,j]·ww[r,j] / fA / dval for i≠j, rows sum to 1.
//  3. M = (P−I)(P−I)ᵀ, symmetrised, positive semi-definite.
//  4. Jacobi eigen-decomposition of M; the eigenvector v of the smallest |λ|
//     (selected by value) spans the left null space of P−I.
//  5. One refinement solve of (P−I)ᵀx = 0 normalised by vᵀx = 1, rescaled
//     to unit length; pihat = |x|. The residual ‖Pᵀpihat − pihat‖ is checked.
//  6. theta, then ranks by a stable sort on −theta.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/spectrank/matrix"
	"github.com/katalvlaran/spectrank/pairwise"
)

// FA is the fixed per-record weight of the vanilla (unweighted) variant.
const FA = 2.0

// MaxStationaryResidual bounds max|Pᵀpihat − pihat| / max(pihat).
const MaxStationaryResidual = 1e-8

var (
	// ErrDegenerateStationary is returned when the stationary vector has a
	// zero entry, i.e. some competitor receives no mass.
	ErrDegenerateStationary = errors.New("spectral: stationary vector has non-positive entries")

	// ErrNumericInstability is returned when the decomposition or the
	// logarithm step produces NaN/Inf, or Jacobi does not converge.
	ErrNumericInstability = errors.New("spectral: numeric instability")

	// ErrStationaryResidual is returned when pihat fails πᵀP = πᵀ.
	ErrStationaryResidual = errors.New("spectral: stationary residual too large")

	// ErrNilComparisons is returned for a nil or empty *pairwise.Comparisons.
	ErrNilComparisons = errors.New("spectral: comparisons are nil or empty")
)

// Result is the point estimate of one run.
type Result struct {
	K    int
	FA   float64
	Dval float64

	// P is the k×k transition matrix.
	P *matrix.Dense
	// MinEigenvalue is the eigenvalue of M whose vector was selected.
	MinEigenvalue float64
	// Residual is max|Pᵀpihat − pihat| / max(pihat).
	Residual float64

	Pi    []float64
	Theta []float64
	// Rank[i] is competitor i's rank, 1 = largest Theta.
	Rank []int
	// Order[p] is the competitor holding rank p+1.
	Order []int
}

// Estimate computes pihat, theta and ranks for c.
//
// Errors: ErrNilComparisons, ErrOptionViolation, ErrNumericInstability
// (wrapping matrix.ErrMatrixEigenFailed on non-convergence),
// ErrDegenerateStationary, ErrStationaryResidual (wraps ErrNumericInstability).
func Estimate(c *pairwise.Comparisons, opts ...Option) (*Result, error) {
	if c == nil || c.L() == 0 || c.Incidence == nil || c.Outcome == nil {
		return nil, ErrNilComparisons
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	k := c.K
	maxDeg := 0
	for _, d := range c.Degrees() {
		maxDeg = max(maxDeg, d)
	}
	dval := 2 * float64(maxDeg)

	p, err := transition(c, k, dval)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}

	id, err := matrix.NewIdentity(k)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	pmi, err := matrix.Sub(p, id)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	m, err := matrix.GramRows(pmi)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	if m, err = matrix.Symmetrize(m); err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	scale, err := matrix.MaxAbs(m)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: transition product is not finite", ErrNumericInstability)
	}
	tol := o.tolerance * math.Max(1, scale)

	vals, vecs, err := matrix.Eigen(m, tol, o.rotations(k))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNumericInstability, err)
	}
	idx := argMinAbs(vals)
	v, err := matrix.Column(vecs, idx)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	v = refine(pmi, v)

	pi := make([]float64, k)
	var zero []int
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: eigenvector entry %d is %v", ErrNumericInstability, i, x)
		}
		pi[i] = math.Abs(x)
		if pi[i] <= 0 {
			zero = append(zero, i)
		}
	}
	if len(zero) > 0 {
		return nil, fmt.Errorf("%w: competitors %v", ErrDegenerateStationary, zero)
	}

	residual, err := stationaryResidual(p, pi)
	if err != nil {
		return nil, fmt.Errorf("Estimate: %w", err)
	}
	if !(residual <= MaxStationaryResidual) {
		return nil, fmt.Errorf("%w: %w (%g)", ErrNumericInstability, ErrStationaryResidual, residual)
	}

	theta, err := centeredLog(pi)
	if err != nil {
		return nil, err
	}
	rank, order := Ranks(theta)

	return &Result{
		K:             k,
		FA:            FA,
		Dval:          dval,
		P:             p,
		MinEigenvalue: vals[idx],
		Residual:      residual,
		Pi:            pi,
		Theta:         theta,
		Rank:          rank,
		Order:         order,
	}, nil
}

// transition builds P from aaᵀ·(aa∘ww): entry (i,j) counts the records in
// which j beat i.
func transition(c *pairwise.Comparisons, k int, dval float64) (*matrix.Dense, error) {
	aw, err := matrix.Hadamard(c.Incidence, c.Outcome)
	if err != nil {
		return nil, err
	}
	at, err := matrix.Transpose(c.Incidence)
	if err != nil {
		return nil, err
	}
	counts, err := matrix.Mul(at, aw)
	if err != nil {
		return nil, err
	}
	cd, ok := counts.(*matrix.Dense)
	if !ok {
		return nil, fmt.Errorf("transition: unexpected %T", counts)
	}

	var i, j int
	for i = 0; i < k; i++ {
		if err = cd.Set(i, i, 0); err != nil {
			return nil, err
		}
	}
	scaled, err := matrix.Scale(cd, 1/(FA*dval))
	if err != nil {
		return nil, err
	}
	p := scaled.(*matrix.Dense)

	var (
		row []float64
		off float64
	)
	for i = 0; i < k; i++ {
		if row, err = p.Row(i); err != nil {
			return nil, err
		}
		off = 0
		for j = 0; j < k; j++ {
			if j != i {
				off += row[j]
			}
		}
		if err = p.Set(i, i, 1-off); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// refine replaces the last equation of (P−I)ᵀx = 0, which the others imply,
// by vᵀx = 1 and solves. The result has unit length; v is returned unchanged
// when the system cannot be solved.
func refine(pmi matrix.Matrix, v []float64) []float64 {
	bt, err := matrix.Transpose(pmi)
	if err != nil {
		return v
	}
	b := bt.(*matrix.Dense)
	k := len(v)
	rhs := make([]float64, k)
	rhs[k-1] = 1
	for j, x := range v {
		if err = b.Set(k-1, j, x); err != nil {
			return v
		}
	}
	x, err := matrix.Solve(b, rhs)
	if err != nil {
		return v
	}
	norm := 0.0
	for _, xi := range x {
		norm += xi * xi
	}
	norm = math.Sqrt(norm)
	if !(norm > 0) || math.IsInf(norm, 0) {
		return v
	}
	for i := range x {
		x[i] /= norm
	}

	return x
}

// stationaryResidual returns max|Pᵀπ − π| / max(π).
func stationaryResidual(p matrix.Matrix, pi []float64) (float64, error) {
	pt, err := matrix.Transpose(p)
	if err != nil {
		return 0, err
	}
	y, err := matrix.MatVec(pt, pi)
	if err != nil {
		return 0, err
	}
	top, worst := 0.0, 0.0
	for i := range pi {
		top = math.Max(top, pi[i])
		worst = math.Max(worst, math.Abs(y[i]-pi[i]))
	}

	return worst / top, nil
}

// argMinAbs returns the first index of the smallest |x|.
func argMinAbs(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if math.Abs(xs[i]) < math.Abs(xs[best]) {
			best = i
		}
	}

	return best
}

func centeredLog(pi []float64) ([]float64, error) {
	theta := make([]float64, len(pi))
	mean := 0.0
	for i, p := range pi {
		theta[i] = math.Log(p)
		mean += theta[i]
	}
	mean /= float64(len(pi))
	for i := range theta {
		theta[i] -= mean
		if math.IsNaN(theta[i]) || math.IsInf(theta[i], 0) {
			return nil, fmt.Errorf("%w: theta[%d] is %v", ErrNumericInstability, i, theta[i])
		}
	}

	return theta, nil
}

// Ranks orders competitors by descending theta with a stable tie-break on
// input order. rank[i] is 1-based; order[p] is the competitor at rank p+1.
func Ranks(theta []float64) (rank, order []int) {
	order = make([]int, len(theta))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return -theta[order[a]] < -theta[order[b]] })
	rank = make([]int, len(theta))
	for p, i := range order {
		rank[i] = p + 1
	}

	return rank, order
}
