// SPDX-License-Identifier: MIT

package spectral

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/spectrank/matrix"
	"github.com/katalvlaran/spectrank/pairwise"
)

// ErrIsolatedCompetitor is returned when a competitor's speed term tau is
// zero or not finite, which happens when it takes part in fewer than two
// records.
var ErrIsolatedCompetitor = errors.New("spectral: competitor has zero speed term")

// Variance holds the asymptotic variance terms of an Estimate.
type Variance struct {
	FA   float64
	Dval float64

	// Incoming[o] = Σ_r aa[r,o]·pihat[o].
	Incoming []float64
	Tau      []float64
	// Term[o] is competitor o's additive variance contribution.
	Term []float64
	// Sigma[i][j] = Term[i] + Term[j].
	Sigma [][]float64

	// V is the L×k influence matrix.
	V *matrix.Dense
	// Basis is V with column o divided by Tau[o]; the bootstrap multiplies it.
	Basis *matrix.Dense
}

// EstimateVariance derives tau, the variance terms, Sigma and the influence
// basis for est, which must come from Estimate on the same c.
//
//	tau[o]  = Σ_r aa[r,o]·(1 − pihat[o]/incoming[o])·pihat[o]/fA / dval
//	term[o] = Σ_r aa[r,o]·(incoming[o] − pihat[o])/fA/fA · pihat[o]/dval²/tau[o]²
//	V[r,o]  = (aa[r,o]·ww[r,o]·incoming[o]/dval − aa[r,o]·pihat[o]) / fA
//
// Errors: ErrNilComparisons, ErrIsolatedCompetitor, ErrNumericInstability.
func EstimateVariance(c *pairwise.Comparisons, est *Result) (*Variance, error) {
	if c == nil || c.L() == 0 || c.Incidence == nil || c.Outcome == nil {
		return nil, ErrNilComparisons
	}
	if est == nil || len(est.Pi) != c.K {
		return nil, fmt.Errorf("EstimateVariance: %w", matrix.ErrDimensionMismatch)
	}

	var (
		k, L   = c.K, c.L()
		fa, dv = est.FA, est.Dval
		pi     = est.Pi
	)
	massed, err := matrix.ScaleCols(c.Incidence, pi)
	if err != nil {
		return nil, fmt.Errorf("EstimateVariance: %w", err)
	}
	incoming, err := matrix.ColSums(massed)
	if err != nil {
		return nil, fmt.Errorf("EstimateVariance: %w", err)
	}

	v, err := matrix.NewDense(L, k)
	if err != nil {
		return nil, fmt.Errorf("EstimateVariance: %w", err)
	}
	tau := make([]float64, k)
	term := make([]float64, k)
	var (
		aCol, wCol []float64
		r, o       int
		t, s       float64
	)
	for o = 0; o < k; o++ {
		if aCol, err = matrix.Column(c.Incidence, o); err != nil {
			return nil, fmt.Errorf("EstimateVariance: %w", err)
		}
		if wCol, err = matrix.Column(c.Outcome, o); err != nil {
			return nil, fmt.Errorf("EstimateVariance: %w", err)
		}
		t, s = 0, 0
		for r = 0; r < L; r++ {
			t += aCol[r] * (1 - pi[o]/incoming[o]) * pi[o] / fa
			s += aCol[r] * (incoming[o] - pi[o]) / fa / fa
			if err = v.Set(r, o, (aCol[r]*wCol[r]*(incoming[o]/dv)-aCol[r]*pi[o])/fa); err != nil {
				return nil, fmt.Errorf("%w: influence[%d,%d]: %w", ErrNumericInstability, r, o, err)
			}
		}
		tau[o] = t / dv
		if tau[o] == 0 || math.IsNaN(tau[o]) || math.IsInf(tau[o], 0) {
			return nil, fmt.Errorf("%w: competitor %d (tau=%v)", ErrIsolatedCompetitor, o, tau[o])
		}
		term[o] = s * pi[o] / dv / dv / tau[o] / tau[o]
		if math.IsNaN(term[o]) || math.IsInf(term[o], 0) {
			return nil, fmt.Errorf("%w: variance term of competitor %d is %v", ErrNumericInstability, o, term[o])
		}
	}

	inv := make([]float64, k)
	for o = range tau {
		inv[o] = 1 / tau[o]
	}
	basis, err := matrix.ScaleCols(v, inv)
	if err != nil {
		return nil, fmt.Errorf("EstimateVariance: %w", err)
	}

	sigma := make([][]float64, k)
	for i := range sigma {
		sigma[i] = make([]float64, k)
		for j := range sigma[i] {
			sigma[i][j] = term[i] + term[j]
		}
	}

	return &Variance{
		FA:       fa,
		Dval:     dv,
		Incoming: incoming,
		Tau:      tau,
		Term:     term,
		Sigma:    sigma,
		V:        v,
		Basis:    basis,
	}, nil
}
