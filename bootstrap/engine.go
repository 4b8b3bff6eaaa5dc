// SPDX-License-Identifier: MIT

// Package bootstrap builds rank confidence intervals with a Gaussian
// multiplier bootstrap over the spectral influence basis.
//
// Two draws consume the caller's generator in a fixed order:
//
//	Pointwise: L·B normals, row-major [L,B]; per-competitor critical values
//	           for the two-sided and the one-sided left bound.
//	Uniform:   a fresh L·B normals; one critical value from the maximum
//	           statistic over all competitors, shared by every competitor.
//
// The same seed therefore reproduces every bound bit for bit.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/spectrank/spectral"
)

// DefaultLevel is the coverage level of every interval.
const DefaultLevel = 0.95

var (
	// ErrInvalidReplicates is returned for B ≤ 0.
	ErrInvalidReplicates = errors.New("bootstrap: replicate count must be positive")

	// ErrInvalidLevel is returned for a level outside (0,1).
	ErrInvalidLevel = errors.New("bootstrap: level must be in (0,1)")

	// ErrNilInput is returned when the estimate, variance or generator is nil.
	ErrNilInput = errors.New("bootstrap: nil estimate, variance or generator")

	// ErrShapeMismatch is returned when estimate and variance disagree on k.
	ErrShapeMismatch = errors.New("bootstrap: estimate and variance shapes differ")

	// ErrNumericInstability is returned for non-finite statistics or
	// critical values.
	ErrNumericInstability = errors.New("bootstrap: numeric instability")
)

// Draw names one pass over the generator.
type Draw int

const (
	Pointwise Draw = iota
	Uniform
)

func (d Draw) String() string {
	switch d {
	case Pointwise:
		return "pointwise"
	case Uniform:
		return "uniform"
	default:
		return fmt.Sprintf("Draw(%d)", int(d))
	}
}

// Config parameterises Run.
type Config struct {
	// Replicates is B, the number of bootstrap columns per draw.
	Replicates int
	// Level defaults to DefaultLevel when zero.
	Level float64
	// Workers bounds the per-competitor goroutines; ≤0 means GOMAXPROCS.
	Workers int
}

func (c Config) withDefaults() Config {
	if c.Level == 0 {
		c.Level = DefaultLevel
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	return c
}

// Intervals holds the four rank bounds per competitor (input order) and the
// critical values they were cut at.
type Intervals struct {
	TwoSidedLeft  []int
	TwoSidedRight []int
	OneSidedLeft  []int
	UniformLeft   []int

	TwoSidedCritical []float64
	OneSidedCritical []float64
	UniformCritical  float64
}

// Run performs the Pointwise then the Uniform draw from rng and derives the
// rank bounds. rng is consumed by exactly 2·L·B NormFloat64 calls.
//
// ctx is checked before each draw; the draws themselves run to completion.
func Run(ctx context.Context, est *spectral.Result, v *spectral.Variance, cfg Config, rng *rand.Rand) (*Intervals, error) {
	if est == nil || v == nil || v.Basis == nil || rng == nil {
		return nil, ErrNilInput
	}
	cfg = cfg.withDefaults()
	if cfg.Replicates <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidReplicates, cfg.Replicates)
	}
	if !(cfg.Level > 0 && cfg.Level < 1) {
		return nil, fmt.Errorf("%w (got %g)", ErrInvalidLevel, cfg.Level)
	}
	k := est.K
	if len(est.Theta) != k || len(v.Sigma) != k || v.Basis.Cols() != k {
		return nil, ErrShapeMismatch
	}

	sd, err := pairSD(v.Sigma)
	if err != nil {
		return nil, err
	}
	s := &sampler{k: k, b: cfg.Replicates, dval: v.Dval, sd: sd, workers: cfg.Workers}

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	reps, err := replicates(v, cfg.Replicates, rng)
	if err != nil {
		return nil, err
	}
	two, one, err := s.pointwise(ctx, reps, cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%s draw: %w", Pointwise, err)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if reps, err = replicates(v, cfg.Replicates, rng); err != nil {
		return nil, err
	}
	uni, err := s.uniform(ctx, reps, cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%s draw: %w", Uniform, err)
	}

	out := &Intervals{
		TwoSidedLeft:     make([]int, k),
		TwoSidedRight:    make([]int, k),
		OneSidedLeft:     make([]int, k),
		UniformLeft:      make([]int, k),
		TwoSidedCritical: two,
		OneSidedCritical: one,
		UniformCritical:  uni,
	}
	var z float64
	for o := 0; o < k; o++ {
		out.TwoSidedLeft[o], out.TwoSidedRight[o], out.OneSidedLeft[o], out.UniformLeft[o] = 1, k, 1, 1
		for j := 0; j < k; j++ {
			if j == o {
				continue
			}
			z = (est.Theta[j] - est.Theta[o]) / sd[o][j]
			if z > two[o] {
				out.TwoSidedLeft[o]++
			}
			if z < -two[o] {
				out.TwoSidedRight[o]--
			}
			if z > one[o] {
				out.OneSidedLeft[o]++
			}
			if z > uni {
				out.UniformLeft[o]++
			}
		}
	}

	return out, nil
}

// pairSD returns √Sigma[i][j], rejecting non-positive or non-finite entries.
func pairSD(sigma [][]float64) ([][]float64, error) {
	sd := make([][]float64, len(sigma))
	for i, row := range sigma {
		if len(row) != len(sigma) {
			return nil, ErrShapeMismatch
		}
		sd[i] = make([]float64, len(row))
		for j, s := range row {
			if !(s > 0) || math.IsInf(s, 0) {
				return nil, fmt.Errorf("%w: sigma[%d][%d] = %v", ErrNumericInstability, i, j, s)
			}
			sd[i][j] = math.Sqrt(s)
		}
	}

	return sd, nil
}

// replicates returns the k×B matrix Basisᵀ·W for a fresh W ~ N(0,1)^{L×B}.
// W is streamed in row-major order and never stored; each basis row has at
// most two non-zero columns, so only those are accumulated.
func replicates(v *spectral.Variance, b int, rng *rand.Rand) ([][]float64, error) {
	k, L := v.Basis.Cols(), v.Basis.Rows()
	reps := make([][]float64, k)
	for o := range reps {
		reps[o] = make([]float64, b)
	}

	nz := make([]int, 0, 2)
	var (
		row []float64
		err error
		w   float64
	)
	for r := 0; r < L; r++ {
		if row, err = v.Basis.Row(r); err != nil {
			return nil, fmt.Errorf("replicates: %w", err)
		}
		nz = nz[:0]
		for o, x := range row {
			if x != 0 {
				nz = append(nz, o)
			}
		}
		for c := 0; c < b; c++ {
			w = rng.NormFloat64()
			for _, o := range nz {
				reps[o][c] += row[o] * w
			}
		}
	}

	return reps, nil
}

type sampler struct {
	k, b    int
	dval    float64
	sd      [][]float64
	workers int
}

// maxStats returns, for competitor o and each column c, the largest
// |stat| and the largest signed stat over j≠o, where
// stat = (reps[j][c] − reps[o][c]) / sd[o][j] / dval.
func (s *sampler) maxStats(reps [][]float64, o int) (absMax, signedMax []float64) {
	absMax = make([]float64, s.b)
	signedMax = make([]float64, s.b)
	var stat float64
	for c := 0; c < s.b; c++ {
		absMax[c], signedMax[c] = math.Inf(-1), math.Inf(-1)
		for j := 0; j < s.k; j++ {
			if j == o {
				continue
			}
			stat = (reps[j][c] - reps[o][c]) / s.sd[o][j] / s.dval
			absMax[c] = math.Max(absMax[c], math.Abs(stat))
			signedMax[c] = math.Max(signedMax[c], stat)
		}
	}

	return absMax, signedMax
}

// pointwise computes each competitor's own two-sided and one-sided critical
// values. Results land in per-competitor slots, so scheduling cannot change
// them.
func (s *sampler) pointwise(ctx context.Context, reps [][]float64, level float64) (two, one []float64, err error) {
	two = make([]float64, s.k)
	one = make([]float64, s.k)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for o := 0; o < s.k; o++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			absMax, signedMax := s.maxStats(reps, o)
			c2, err := critical(absMax, level)
			if err != nil {
				return fmt.Errorf("competitor %d two-sided: %w", o, err)
			}
			c1, err := critical(signedMax, level)
			if err != nil {
				return fmt.Errorf("competitor %d one-sided: %w", o, err)
			}
			two[o], one[o] = c2, c1

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}

	return two, one, nil
}

// uniform computes the single critical value of max_o max_{j≠o} stat.
func (s *sampler) uniform(ctx context.Context, reps [][]float64, level float64) (float64, error) {
	perComp := make([][]float64, s.k)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for o := 0; o < s.k; o++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, perComp[o] = s.maxStats(reps, o)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	global := make([]float64, s.b)
	for c := range global {
		global[c] = math.Inf(-1)
		for o := 0; o < s.k; o++ {
			global[c] = math.Max(global[c], perComp[o][c])
		}
	}

	return critical(global, level)
}

func critical(stats []float64, level float64) (float64, error) {
	q, err := Quantile(stats, level)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, fmt.Errorf("%w: critical value %v", ErrNumericInstability, q)
	}

	return q, nil
}
