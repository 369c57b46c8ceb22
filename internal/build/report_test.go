package build

import (
	"strings"
	"testing"
	"time"
)

func TestReportFailedUnitsInRunOrder(t *testing.T) {
	r := NewReport()
	r.add("root", StatusSuccess, "", time.Second)
	r.add("lists", StatusFailed, "exit status 1", time.Second)
	r.add("articles", StatusFailed, "exit status 2", time.Second)
	r.finish(OutcomeWarning)

	failed := r.FailedUnits()
	if len(failed) != 2 || failed[0] != "lists" || failed[1] != "articles" {
		t.Errorf("FailedUnits() = %v, want [lists articles]", failed)
	}
}

func TestReportSummaryWithoutFailures(t *testing.T) {
	r := NewReport()
	r.add("root", StatusSuccess, "", time.Second)
	r.finish(OutcomeSuccess)

	s := r.Summary()
	if strings.Contains(s, "Failed units") {
		t.Errorf("clean run summary should not list failures:\n%s", s)
	}
	if !strings.Contains(s, "success") {
		t.Errorf("summary should carry the outcome:\n%s", s)
	}
}

func TestReportDuration(t *testing.T) {
	r := NewReport()
	r.End = r.Start.Add(1500 * time.Millisecond)
	if r.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration() = %v", r.Duration())
	}
}
