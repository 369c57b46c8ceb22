package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
	"git.home.luguber.info/inful/siteforge/internal/metrics"
	"git.home.luguber.info/inful/siteforge/internal/server"
	"git.home.luguber.info/inful/siteforge/internal/watch"
)

// ServeCmd serves the built site and rebuilds it behind a maintenance page.
type ServeCmd struct {
	Port         int    `short:"p" help:"Override the configured serve port"`
	Watch        bool   `short:"w" help:"Rebuild when content changes"`
	NoBuild      bool   `name:"no-build" help:"Skip the initial build and serve existing output"`
	RebuildEvery string `name:"rebuild-every" help:"Rebuild on a fixed interval, e.g. 6h (overrides config)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.RebuildEvery != "" {
		if _, perr := time.ParseDuration(s.RebuildEvery); perr != nil {
			return fmt.Errorf("invalid --rebuild-every %q: %w", s.RebuildEvery, perr)
		}
		cfg.Serve.RebuildEvery = s.RebuildEvery
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var registry *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Serve.Metrics {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}
	driver := newDriver(cfg, recorder)

	siteDir := filepath.Join(cfg.Workspace, cfg.Serve.SiteDir)
	srv := server.New(server.Options{
		Addr:            serveAddr(cfg),
		SiteDir:         siteDir,
		Title:           cfg.Site.Title,
		MaintenancePage: cfg.Serve.MaintenancePage,
		Registry:        registry,
	})
	// Port bind failure is a fatal precondition: no build work starts.
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Server shutdown reported error", logfields.Error(err))
		}
	}()

	// Rebuilds are serialized: watch and schedule triggers never overlap.
	var rebuildMu sync.Mutex
	rebuild := func() {
		rebuildMu.Lock()
		defer rebuildMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := srv.EnterMaintenance(); err != nil {
			slog.Error("Failed to enter maintenance mode", logfields.Error(err))
			return
		}
		if _, err := runBuild(ctx, cfg, driver); err != nil {
			// Fatal outcome: stay in maintenance so stale or missing content
			// is never served behind a broken build.
			slog.Error("Rebuild failed, staying in maintenance mode", logfields.Error(err))
			return
		}
		srv.ExitMaintenance()
	}

	if !s.NoBuild {
		rebuild()
	}

	if s.Watch {
		ignore := []string{filepath.Base(cfg.Serve.SiteDir), filepath.Base(cfg.Features.Output)}
		watcher := watch.New(cfg.Workspace, ignore, watch.DefaultDebounce, rebuild)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Watcher stopped", logfields.Error(err))
			}
		}()
	}

	if interval := cfg.RebuildInterval(); interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		if _, err := scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(rebuild),
			gocron.WithName("scheduled-rebuild"),
		); err != nil {
			return fmt.Errorf("schedule rebuild: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown reported error", logfields.Error(err))
			}
		}()
		slog.Info("Scheduled rebuilds enabled", slog.String("interval", interval.String()))
	}

	fmt.Printf("Serving %s on %s\n", siteDir, srv.Addr())
	<-ctx.Done()
	slog.Info("Shutdown signal received")
	return nil
}
