// SPDX-License-Identifier: MIT

package ranking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/spectrank/ranking"
)

// TestRankSpans checks one span per stage under the run span, and the error
// status of a failed stage.
func TestRankSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, err := ranking.Rank(context.Background(), scenario(t))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, s := range rec.Ended() {
		names[s.Name()] = true
	}
	for _, stage := range []string{
		"run",
		ranking.StageValidate, ranking.StageAggregate, ranking.StageConnect,
		ranking.StageEstimate, ranking.StageVariance, ranking.StageBootstrap, ranking.StageAssemble,
	} {
		assert.True(t, names["ranking."+stage], "missing span for %s", stage)
	}

	bad := scenario(t)
	bad.BootstrapCount = -1
	_, err = ranking.Rank(context.Background(), bad)
	require.Error(t, err)

	ended := rec.Ended()
	last := ended[len(ended)-1]
	assert.Equal(t, "ranking.run", last.Name())
	assert.Equal(t, codes.Error, last.Status().Code)
}
