// SPDX-License-Identifier: MIT

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katalvlaran/spectrank/telemetry"
)

func TestDisabledProvider(t *testing.T) {
	p, err := telemetry.NewProvider(context.Background(), telemetry.Config{}, nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("x"))
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestSamplingRateRejected(t *testing.T) {
	_, err := telemetry.NewProvider(context.Background(), telemetry.Config{Enabled: true, SamplingRate: 1.5}, nil)
	require.ErrorIs(t, err, telemetry.ErrSamplingRate)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), telemetry.Sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), telemetry.Sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), telemetry.Sampler(0.25).Description())
}
