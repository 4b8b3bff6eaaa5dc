// SPDX-License-Identifier: MIT

package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spectrank/table"
)

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	tbl, err := table.New([]string{"A", "B"}, [][]float64{{1, 2}, {2, 1}, {1, 3}})
	require.NoError(t, err)
	req := Request{Table: tbl, Direction: "higher", BootstrapCount: 10, Seed: 1}

	_, err = Rank(context.Background(), req, WithMetrics(m))
	require.NoError(t, err)
	req.BootstrapCount = 0
	_, err = Rank(context.Background(), req, WithMetrics(m))
	require.Error(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ok", "")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("error", string(KindParameterRange))))
	require.Equal(t, 2.0, testutil.ToFloat64(m.competitors))
	require.Equal(t, 3.0, testutil.ToFloat64(m.comparisons))

	n, err := testutil.GatherAndCount(reg, "spectrank_stage_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 7, n)
}

func TestMetricsGathered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.recordRun(nil)
	m.observeStage(StageBootstrap, 250*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}

	runs := byName["spectrank_runs_total"]
	require.NotNil(t, runs)
	require.Equal(t, dto.MetricType_COUNTER, runs.GetType())
	require.Len(t, runs.GetMetric(), 1)
	labels := map[string]string{}
	for _, lp := range runs.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	require.Equal(t, "ok", labels["status"])

	stages := byName["spectrank_stage_duration_seconds"]
	require.NotNil(t, stages)
	hist := stages.GetMetric()[0].GetHistogram()
	require.EqualValues(t, 1, hist.GetSampleCount())
	require.InDelta(t, 0.25, hist.GetSampleSum(), 1e-9)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.observeStage(StageEstimate, 0)
	m.setShape(2, 1)
	m.recordRun(nil)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{table.ErrEmptyTable, KindInputShape},
		{table.ErrNonFinite, KindNumericInstability},
		{context.Canceled, KindInternal},
		{NewError(KindParameterRange, context.Canceled), KindParameterRange},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.err).Kind, tc.err.Error())
	}
}
