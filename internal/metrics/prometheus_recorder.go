package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	unitDuration  *prom.HistogramVec
	buildDuration prom.Histogram
	unitResults   *prom.CounterVec
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		unitDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "siteforge",
			Name:      "unit_duration_seconds",
			Help:      "Duration of individual unit builds",
			Buckets:   prom.DefBuckets,
		}, []string{"unit"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "siteforge",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		unitResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteforge",
			Name:      "unit_results_total",
			Help:      "Unit build results by outcome",
		}, []string{"unit", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteforge",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.unitDuration, pr.buildDuration, pr.unitResults, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) ObserveUnitDuration(unit string, d time.Duration) {
	if p == nil || p.unitDuration == nil {
		return
	}
	p.unitDuration.WithLabelValues(unit).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncUnitResult(unit string, result ResultLabel) {
	if p == nil || p.unitResults == nil {
		return
	}
	p.unitResults.WithLabelValues(unit, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}
