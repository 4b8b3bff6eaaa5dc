// SPDX-License-Identifier: MIT

package ranking

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-invocation Prometheus metrics. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	comparisons   prometheus.Gauge
	competitors   prometheus.Gauge
}

// NewMetrics creates the ranking metrics and registers them with reg.
// Registering twice on the same registerer panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spectrank_runs_total",
				Help: "Ranking invocations by outcome and error kind.",
			},
			[]string{"status", "kind"},
		),
		stageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spectrank_stage_duration_seconds",
				Help:    "Wall time of each ranking pipeline stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		comparisons: f.NewGauge(prometheus.GaugeOpts{
			Name: "spectrank_comparisons",
			Help: "Pairwise comparison records in the last invocation.",
		}),
		competitors: f.NewGauge(prometheus.GaugeOpts{
			Name: "spectrank_competitors",
			Help: "Competitors in the last invocation.",
		}),
	}
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) setShape(competitors, comparisons int) {
	if m == nil {
		return
	}
	m.competitors.Set(float64(competitors))
	m.comparisons.Set(float64(comparisons))
}

func (m *Metrics) recordRun(err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.runs.WithLabelValues("ok", "").Inc()
		return
	}
	m.runs.WithLabelValues("error", string(KindOf(err))).Inc()
}
