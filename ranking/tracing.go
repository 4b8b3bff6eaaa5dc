// SPDX-License-Identifier: MIT

package ranking

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "spectrank/ranking"

// Pipeline stage names, used for span names and the stage metric label.
const (
	StageValidate  = "validate"
	StageAggregate = "aggregate"
	StageConnect   = "connectivity"
	StageEstimate  = "estimate"
	StageVariance  = "variance"
	StageBootstrap = "bootstrap"
	StageAssemble  = "assemble"
)

// startSpan opens a span for one pipeline stage and returns the function
// that ends it, recording err when non-nil.
//
//	ctx, end := startSpan(ctx, StageEstimate)
//	defer end(err)
func startSpan(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ranking."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
