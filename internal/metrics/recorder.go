// Package metrics defines observability hooks for build runs.
package metrics

import "time"

// ResultLabel enumerates unit result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for build and unit metrics.
// Implementations must tolerate being optional: callers may hold a
// NoopRecorder when metrics are not configured.
type Recorder interface {
	ObserveUnitDuration(unit string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncUnitResult(unit string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveUnitDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncUnitResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                    {}
