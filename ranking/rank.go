// SPDX-License-Identifier: MIT

// Package ranking is the invocation boundary of the spectral ranking engine.
//
// Rank runs the whole pipeline for one Request:
//
//	validate → aggregate → connectivity → estimate → variance → bootstrap → assemble
//
// and returns either a complete *Result or a single *Error carrying one of
// four kinds (input shape, disconnected graph, parameter range, numeric
// instability). Partial results are never returned.
//
// Every call owns its generator, rand.New(rand.NewSource(Seed)), so
// concurrent calls share no state and identical requests give identical
// results.
package ranking

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/katalvlaran/spectrank/bootstrap"
	"github.com/katalvlaran/spectrank/pairwise"
	"github.com/katalvlaran/spectrank/spectral"
)

// Option configures Rank.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  *Metrics
	workers  int
	level    float64
	spectral []spectral.Option
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		level:  bootstrap.DefaultLevel,
	}
}

// WithLogger sets the structured logger. Stage timings go to Debug, the run
// summary to Info.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithWorkers bounds the bootstrap's per-competitor goroutines.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLevel overrides the 0.95 coverage level.
func WithLevel(level float64) Option {
	return func(o *options) { o.level = level }
}

// WithSpectralOptions forwards options to spectral.Estimate.
func WithSpectralOptions(opts ...spectral.Option) Option {
	return func(o *options) { o.spectral = append(o.spectral, opts...) }
}

// Rank ranks the competitors of req.Table.
//
// Errors are always *Error; use errors.Is with ErrInputShape,
// ErrDisconnectedGraph, ErrParameterRange or ErrNumericInstability.
func Rank(ctx context.Context, req Request, opts ...Option) (res *Result, err error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()
	log := o.logger.With("job_id", req.JobID)

	ctx, endRun := startSpan(ctx, "run",
		attribute.String("spectrank.job_id", req.JobID),
		attribute.Int("spectrank.bootstrap_count", req.BootstrapCount),
		attribute.Int64("spectrank.seed", req.Seed),
	)
	defer func() {
		if err != nil {
			e := Classify(err)
			err = e
			res = nil
			log.Error("ranking failed", "kind", e.Kind, "error", e.Message)
		}
		o.metrics.recordRun(err)
		endRun(err)
	}()

	r := &run{ctx: ctx, log: log, metrics: o.metrics}

	var dir pairwise.Direction
	if err = r.stage(StageValidate, func(context.Context) error {
		if err := req.Validate(); err != nil {
			return err
		}
		if err := req.Table.Validate(); err != nil {
			return err
		}
		var err error
		dir, err = pairwise.ParseDirection(req.Direction)
		return err
	}); err != nil {
		return nil, err
	}

	var c *pairwise.Comparisons
	if err = r.stage(StageAggregate, func(context.Context) error {
		var err error
		c, err = pairwise.Aggregate(req.Table.Rows, req.Table.K(), dir)
		return err
	}); err != nil {
		return nil, err
	}
	o.metrics.setShape(c.K, c.L())

	if err = r.stage(StageConnect, func(context.Context) error {
		return c.CheckConnected(req.Table.Competitors)
	}); err != nil {
		return nil, err
	}

	var est *spectral.Result
	if err = r.stage(StageEstimate, func(context.Context) error {
		var err error
		est, err = spectral.Estimate(c, o.spectral...)
		return err
	}); err != nil {
		return nil, err
	}

	var v *spectral.Variance
	if err = r.stage(StageVariance, func(context.Context) error {
		var err error
		v, err = spectral.EstimateVariance(c, est)
		return err
	}); err != nil {
		return nil, err
	}

	var ci *bootstrap.Intervals
	if err = r.stage(StageBootstrap, func(ctx context.Context) error {
		rng := rand.New(rand.NewSource(req.Seed))
		var err error
		ci, err = bootstrap.Run(ctx, est, v, bootstrap.Config{
			Replicates: req.BootstrapCount,
			Level:      o.level,
			Workers:    o.workers,
		}, rng)
		return err
	}); err != nil {
		return nil, err
	}

	if err = r.stage(StageAssemble, func(context.Context) error {
		res = Assemble(req, est, ci, time.Since(start))
		return res.Validate()
	}); err != nil {
		return nil, err
	}

	log.Info("ranking complete",
		"competitors", c.K,
		"contexts", req.Table.N(),
		"comparisons", c.L(),
		"replicates", req.BootstrapCount,
		"runtime", time.Since(start),
	)

	return res, nil
}

// run carries the per-invocation plumbing shared by the stages.
type run struct {
	ctx     context.Context
	log     *slog.Logger
	metrics *Metrics
}

// stage runs fn inside its own span and records its duration.
func (r *run) stage(name string, fn func(context.Context) error) (err error) {
	ctx, end := startSpan(r.ctx, name)
	defer func() { end(err) }()

	t := time.Now()
	err = fn(ctx)
	d := time.Since(t)
	r.metrics.observeStage(name, d)
	if err != nil {
		return err
	}
	r.log.Debug("stage complete", "stage", name, "duration", d)

	return nil
}
