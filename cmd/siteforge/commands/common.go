package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/siteforge/internal/build"
	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/generator"
	"git.home.luguber.info/inful/siteforge/internal/history"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
	"git.home.luguber.info/inful/siteforge/internal/measures"
	"git.home.luguber.info/inful/siteforge/internal/metrics"
)

// Global carries state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition with global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"siteforge.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build all content folders in declared order"`
	Serve   ServeCmd   `cmd:"" help:"Serve the built site and rebuild behind a maintenance page"`
	Fetch   FetchCmd   `cmd:"" help:"Clone or update the content repository"`
	Verify  VerifyCmd  `cmd:"" help:"Check internal links in the built site"`
	History HistoryCmd `cmd:"" help:"List recent build runs"`
	Init    InitCmd    `cmd:"" help:"Write a starter configuration file"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newPlan translates the validated config into a build plan.
func newPlan(cfg *config.Config) build.Plan {
	units := make([]build.Unit, 0, len(cfg.Units))
	for _, u := range cfg.Units {
		units = append(units, build.Unit{Name: u.Name, Dir: u.Dir})
	}
	return build.NewPlan(cfg.Workspace, cfg.Root.Dir, units)
}

// newBridge builds the feature-page step: read the measures artifact the root
// build produced, emit the generated pages.
func newBridge(cfg *config.Config) build.BridgeFunc {
	return func(ctx context.Context) error {
		artifact := filepath.Join(cfg.Workspace, cfg.Root.Dir, cfg.Root.Measures)
		m, err := measures.Load(artifact)
		if err != nil {
			return err
		}
		outDir := filepath.Join(cfg.Workspace, cfg.Features.Output)
		return measures.WritePages(m, outDir, cfg.Features.Template)
	}
}

// newDriver assembles the build driver from config.
func newDriver(cfg *config.Config, recorder metrics.Recorder) *build.Driver {
	runner := generator.NewBinary(cfg.Generator.Command, cfg.Generator.Args)
	return build.NewDriver(runner, newBridge(cfg), recorder)
}

// runBuild executes one full build run, prints the summary, and records it in
// the history store when one is configured. The returned error is non-nil only
// for fatal conditions.
func runBuild(ctx context.Context, cfg *config.Config, driver *build.Driver) (*build.Report, error) {
	report, err := driver.Run(ctx, newPlan(cfg))
	if report != nil {
		fmt.Print(report.Summary())
		recordHistory(cfg, report)
	}
	return report, err
}

func recordHistory(cfg *config.Config, report *build.Report) {
	if cfg.History.Path == "" {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("Failed to open history store", logfields.Error(err))
		return
	}
	defer store.Close()
	if err := store.Append(context.Background(), report); err != nil {
		slog.Warn("Failed to record build history", logfields.Error(err))
	}
}

// serveAddr renders the public listen address from config.
func serveAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%d", cfg.Serve.Port)
}
