// Package build runs the declared sequence of content-folder builds in order.
//
// The root unit builds first and its failure aborts the run: the measures
// artifact it produces is a precondition for feature-page generation, which in
// turn feeds some subfolder content. Subfolder failures are isolated: they are
// recorded and the remaining units still build.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/generator"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
	"git.home.luguber.info/inful/siteforge/internal/metrics"
)

// BridgeUnitName is the report entry name for the feature-page step.
const BridgeUnitName = "features"

// Unit is one content folder built as an independent target. Dir is absolute
// (resolved against the workspace root at plan construction).
type Unit struct {
	Name    string
	Dir     string
	Ordinal int
}

// Plan is the validated, ordered build sequence for one run. The order is
// trusted: dependency constraints were checked at config load.
type Plan struct {
	Workspace string
	Root      Unit
	Units     []Unit
}

// NewPlan resolves unit directories against the workspace root and assigns
// ordinals in declared order.
func NewPlan(workspace, rootDir string, units []Unit) Plan {
	p := Plan{
		Workspace: workspace,
		Root:      Unit{Name: "root", Dir: filepath.Join(workspace, rootDir)},
	}
	for i, u := range units {
		u.Dir = filepath.Join(workspace, u.Dir)
		u.Ordinal = i + 1
		p.Units = append(p.Units, u)
	}
	return p
}

// BridgeFunc is the feature-page generation step, run between the root build
// and the subfolder builds. Its failure is fatal.
type BridgeFunc func(ctx context.Context) error

// Driver executes a Plan with the configured generator runner.
type Driver struct {
	runner   generator.Runner
	bridge   BridgeFunc
	recorder metrics.Recorder
}

// NewDriver constructs a Driver. bridge may be nil when the plan has no
// feature-page step; recorder may be nil (a NoopRecorder is substituted).
func NewDriver(runner generator.Runner, bridge BridgeFunc, recorder metrics.Recorder) *Driver {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Driver{runner: runner, bridge: bridge, recorder: recorder}
}

// Run executes the plan and returns the aggregate report. The returned error
// is non-nil only for fatal conditions (missing generator, root failure,
// feature-page failure, cancellation); subfolder failures are reported
// through the warning outcome and the report itself.
func (d *Driver) Run(ctx context.Context, plan Plan) (*Report, error) {
	report := NewReport()
	defer func() {
		d.recorder.ObserveBuildDuration(report.Duration())
		d.recorder.IncBuildOutcome(string(report.Outcome))
	}()

	if err := d.runner.Check(); err != nil {
		report.finish(OutcomeFailed)
		return report, err
	}

	slog.Info("Starting build run", logfields.RunID(report.RunID), slog.Int("units", len(plan.Units)))

	// Root builds first, unconditionally. Everything downstream reads its output.
	if err := d.runUnit(ctx, report, plan.Root); err != nil {
		report.finish(OutcomeFailed)
		return report, sferrors.RootBuildFailed(plan.Root.Name, err)
	}

	if d.bridge != nil {
		if err := d.runBridge(ctx, report); err != nil {
			report.finish(OutcomeFailed)
			return report, sferrors.BridgeFailed(err)
		}
	}

	warnings := 0
	for _, unit := range plan.Units {
		if err := ctx.Err(); err != nil {
			report.finish(OutcomeCanceled)
			return report, sferrors.Wrap(err, sferrors.CategoryRuntime, sferrors.SeverityFatal, "build canceled")
		}
		if err := d.runUnit(ctx, report, unit); err != nil {
			// Isolation: one subfolder's failure never blocks the rest.
			warnings++
			slog.Warn("Unit build failed, continuing", logfields.Unit(unit.Name), logfields.Error(err))
		}
	}

	if warnings > 0 {
		report.finish(OutcomeWarning)
	} else {
		report.finish(OutcomeSuccess)
	}
	slog.Info("Build run finished",
		logfields.RunID(report.RunID),
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

func (d *Driver) runUnit(ctx context.Context, report *Report, unit Unit) error {
	slog.Info("Building unit", logfields.Unit(unit.Name), logfields.Dir(unit.Dir))
	start := time.Now()
	out, err := d.runner.Run(ctx, unit.Dir)
	elapsed := time.Since(start)

	d.recorder.ObserveUnitDuration(unit.Name, elapsed)
	if err != nil {
		d.recorder.IncUnitResult(unit.Name, metrics.ResultFailed)
		report.add(unit.Name, StatusFailed, out, elapsed)
		return fmt.Errorf("generator failed in %s: %w", unit.Dir, err)
	}
	d.recorder.IncUnitResult(unit.Name, metrics.ResultSuccess)
	report.add(unit.Name, StatusSuccess, out, elapsed)
	slog.Info("Unit built", logfields.Unit(unit.Name), logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

func (d *Driver) runBridge(ctx context.Context, report *Report) error {
	slog.Info("Generating feature pages", logfields.Unit(BridgeUnitName))
	start := time.Now()
	err := d.bridge(ctx)
	elapsed := time.Since(start)

	d.recorder.ObserveUnitDuration(BridgeUnitName, elapsed)
	if err != nil {
		d.recorder.IncUnitResult(BridgeUnitName, metrics.ResultFailed)
		report.add(BridgeUnitName, StatusFailed, err.Error(), elapsed)
		return err
	}
	d.recorder.IncUnitResult(BridgeUnitName, metrics.ResultSuccess)
	report.add(BridgeUnitName, StatusSuccess, "", elapsed)
	return nil
}
