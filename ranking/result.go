// SPDX-License-Identifier: MIT

package ranking

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/spectrank/bootstrap"
	"github.com/katalvlaran/spectrank/pairwise"
	"github.com/katalvlaran/spectrank/spectral"
)

// ErrInvalidResult is returned by Result.Validate.
var ErrInvalidResult = errors.New("ranking: result violates its invariants")

// Params echoes the invocation parameters.
type Params struct {
	BigBetter bool  `json:"bigbetter" yaml:"bigbetter"`
	B         int   `json:"B" yaml:"B" validate:"gt=0"`
	Seed      int64 `json:"seed" yaml:"seed" validate:"gte=0"`
}

// Method is one competitor's row of the result.
type Method struct {
	Name          string  `json:"name" yaml:"name" validate:"required"`
	ThetaHat      float64 `json:"theta_hat" yaml:"theta_hat"`
	Rank          int     `json:"rank" yaml:"rank" validate:"min=1"`
	CITwoSided    [2]int  `json:"ci_two_sided" yaml:"ci_two_sided"`
	CILeft        int     `json:"ci_left" yaml:"ci_left" validate:"min=1"`
	CIUniformLeft int     `json:"ci_uniform_left" yaml:"ci_uniform_left" validate:"min=1"`
}

// Metadata describes the run.
type Metadata struct {
	NSamples   int     `json:"n_samples" yaml:"n_samples" validate:"min=1"`
	KMethods   int     `json:"k_methods" yaml:"k_methods" validate:"min=2"`
	RuntimeSec float64 `json:"runtime_sec" yaml:"runtime_sec" validate:"gte=0"`
}

// Result is the output of one invocation. Methods are in input column order.
type Result struct {
	JobID    string   `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	Params   Params   `json:"params" yaml:"params"`
	Methods  []Method `json:"methods" yaml:"methods" validate:"min=2,dive"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Assemble packages the estimate and intervals, one Method per competitor
// in input order. It performs no computation beyond copying.
func Assemble(req Request, est *spectral.Result, ci *bootstrap.Intervals, runtime time.Duration) *Result {
	names := req.Table.Competitors
	methods := make([]Method, len(names))
	for i, name := range names {
		methods[i] = Method{
			Name:          name,
			ThetaHat:      est.Theta[i],
			Rank:          est.Rank[i],
			CITwoSided:    [2]int{ci.TwoSidedLeft[i], ci.TwoSidedRight[i]},
			CILeft:        ci.OneSidedLeft[i],
			CIUniformLeft: ci.UniformLeft[i],
		}
	}

	return &Result{
		JobID: req.JobID,
		Params: Params{
			BigBetter: req.Direction == pairwise.DirectionHigher,
			B:         req.BootstrapCount,
			Seed:      req.Seed,
		},
		Methods: methods,
		Metadata: Metadata{
			NSamples:   req.Table.N(),
			KMethods:   len(names),
			RuntimeSec: runtime.Seconds(),
		},
	}
}

// Validate checks the structural invariants: ranks form a permutation of
// 1..k, every bound lies in [1,k] and two-sided bounds are ordered.
func (r *Result) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	k := len(r.Methods)
	if r.Metadata.KMethods != k {
		return fmt.Errorf("%w: k_methods=%d but %d methods", ErrInvalidResult, r.Metadata.KMethods, k)
	}
	seen := make([]bool, k+1)
	for _, m := range r.Methods {
		if m.Rank > k || seen[m.Rank] {
			return fmt.Errorf("%w: rank %d of %q is not part of a permutation of 1..%d", ErrInvalidResult, m.Rank, m.Name, k)
		}
		seen[m.Rank] = true
		for _, b := range []int{m.CITwoSided[0], m.CITwoSided[1], m.CILeft, m.CIUniformLeft} {
			if b < 1 || b > k {
				return fmt.Errorf("%w: bound %d of %q outside [1,%d]", ErrInvalidResult, b, m.Name, k)
			}
		}
		if m.CITwoSided[0] > m.CITwoSided[1] {
			return fmt.Errorf("%w: two-sided interval of %q is [%d,%d]", ErrInvalidResult, m.Name, m.CITwoSided[0], m.CITwoSided[1])
		}
	}

	return nil
}
