package build

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the per-unit build result state.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome is the typed enumeration of final run result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"  // everything built
	OutcomeWarning  Outcome = "warning"  // some subfolder units failed, run completed
	OutcomeFailed   Outcome = "failed"   // root or feature-page step failed, run aborted
	OutcomeCanceled Outcome = "canceled" // interrupted before completion
)

// Result is the recorded outcome of a single unit build.
type Result struct {
	Unit     string        `json:"unit"`
	Status   Status        `json:"status"`
	Output   string        `json:"output,omitempty"` // captured generator diagnostics
	Duration time.Duration `json:"duration"`
}

// Report aggregates per-unit results for one build run. Reports are
// in-memory only; persistence is the history store's concern.
type Report struct {
	RunID   string    `json:"run_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Results []Result  `json:"results"`
	Outcome Outcome   `json:"outcome"`
}

// NewReport starts a report for a fresh run.
func NewReport() *Report {
	return &Report{
		RunID: uuid.NewString(),
		Start: time.Now(),
	}
}

func (r *Report) add(unit string, status Status, output string, d time.Duration) {
	r.Results = append(r.Results, Result{Unit: unit, Status: status, Output: output, Duration: d})
}

func (r *Report) finish(outcome Outcome) {
	r.Outcome = outcome
	r.End = time.Now()
}

// FailedUnits returns the names of units whose build failed, in run order.
func (r *Report) FailedUnits() []string {
	var failed []string
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res.Unit)
		}
	}
	return failed
}

// Duration returns the total wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Summary renders the operator-facing run summary.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build %s: %s (%d units, %s)\n", r.RunID[:8], r.Outcome, len(r.Results), r.Duration().Round(time.Millisecond))
	for _, res := range r.Results {
		fmt.Fprintf(&b, "  %-12s %s\n", res.Unit, res.Status)
	}
	if failed := r.FailedUnits(); len(failed) > 0 {
		fmt.Fprintf(&b, "Failed units: %s\n", strings.Join(failed, ", "))
	}
	return b.String()
}
