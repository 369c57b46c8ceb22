package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// fakeRunner records invocation order and fails for configured directories.
type fakeRunner struct {
	calls    []string // base names of directories built, in order
	fail     map[string]bool
	checkErr error
}

func (f *fakeRunner) Check() error { return f.checkErr }

func (f *fakeRunner) Run(_ context.Context, dir string) (string, error) {
	name := filepath.Base(dir)
	f.calls = append(f.calls, name)
	if f.fail[name] {
		return "boom output", fmt.Errorf("exit status 1")
	}
	return "ok", nil
}

func testPlan(t *testing.T, unitNames ...string) Plan {
	t.Helper()
	ws := t.TempDir()
	units := make([]Unit, 0, len(unitNames))
	for _, n := range unitNames {
		units = append(units, Unit{Name: n, Dir: n})
	}
	return NewPlan(ws, "site", units)
}

func TestRunBuildsDeclaredOrder(t *testing.T) {
	runner := &fakeRunner{}
	driver := NewDriver(runner, nil, nil)
	plan := testPlan(t, "creators", "lists", "articles")

	report, err := driver.Run(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, report.Outcome)
	// Root strictly first, then declared order: creators before lists.
	assert.Equal(t, []string{"site", "creators", "lists", "articles"}, runner.calls)
	assert.Empty(t, report.FailedUnits())
}

func TestRunRootFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"site": true}}
	bridgeRan := false
	driver := NewDriver(runner, func(context.Context) error { bridgeRan = true; return nil }, nil)
	plan := testPlan(t, "creators", "lists")

	report, err := driver.Run(context.Background(), plan)
	require.Error(t, err)

	assert.True(t, sferrors.IsFatal(err))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	// Short-circuit: no bridging, no subfolder generator ever invoked.
	assert.False(t, bridgeRan)
	assert.Equal(t, []string{"site"}, runner.calls)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Equal(t, "boom output", report.Results[0].Output)
}

func TestRunBridgeFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{}
	driver := NewDriver(runner, func(context.Context) error { return errors.New("measures unreadable") }, nil)
	plan := testPlan(t, "creators", "lists")

	report, err := driver.Run(context.Background(), plan)
	require.Error(t, err)

	assert.True(t, sferrors.IsFatal(err))
	assert.Equal(t, sferrors.CategoryMeasures, sferrors.CategoryOf(err))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	// Only the root ran; no subfolder was attempted.
	assert.Equal(t, []string{"site"}, runner.calls)
}

func TestRunSubfolderFailureIsIsolated(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"b": true}}
	driver := NewDriver(runner, func(context.Context) error { return nil }, nil)
	plan := testPlan(t, "a", "b", "c")

	report, err := driver.Run(context.Background(), plan)
	// Completed with warnings: not an error at the driver level.
	require.NoError(t, err)

	assert.Equal(t, OutcomeWarning, report.Outcome)
	// Every remaining unit was still attempted.
	assert.Equal(t, []string{"site", "a", "b", "c"}, runner.calls)
	assert.Equal(t, []string{"b"}, report.FailedUnits())

	byUnit := map[string]Status{}
	for _, res := range report.Results {
		byUnit[res.Unit] = res.Status
	}
	assert.Equal(t, map[string]Status{
		"root":         StatusSuccess,
		BridgeUnitName: StatusSuccess,
		"a":            StatusSuccess,
		"b":            StatusFailed,
		"c":            StatusSuccess,
	}, byUnit)
}

func TestRunMissingGeneratorIsFatalPrecondition(t *testing.T) {
	runner := &fakeRunner{checkErr: sferrors.GeneratorMissing("hugo", errors.New("not in PATH"))}
	driver := NewDriver(runner, nil, nil)

	report, err := driver.Run(context.Background(), testPlan(t, "creators"))
	require.Error(t, err)

	assert.True(t, sferrors.IsFatal(err))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Empty(t, runner.calls, "no unit may run without the generator")
}

func TestRunCancellationStopsRemainingUnits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{}
	driver := NewDriver(runner, func(context.Context) error {
		cancel() // interrupt arrives between bridging and subfolder builds
		return nil
	}, nil)

	report, err := driver.Run(ctx, testPlan(t, "creators", "lists"))
	require.Error(t, err)

	assert.Equal(t, OutcomeCanceled, report.Outcome)
	assert.Equal(t, []string{"site"}, runner.calls)
}

func TestReportSummaryListsFailedUnits(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"lists": true}}
	driver := NewDriver(runner, nil, nil)

	report, err := driver.Run(context.Background(), testPlan(t, "creators", "lists"))
	require.NoError(t, err)

	summary := report.Summary()
	assert.Contains(t, summary, "warning")
	assert.Contains(t, summary, "Failed units: lists")
}
