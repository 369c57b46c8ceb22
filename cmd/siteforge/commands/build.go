package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/siteforge/internal/build"
	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
	"git.home.luguber.info/inful/siteforge/internal/swap"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Maintenance bool `help:"Serve a maintenance page on the public port while the build runs"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	driver := newDriver(cfg, nil)

	if !b.Maintenance {
		_, err := runBuild(ctx, cfg, driver)
		return err
	}

	controller := swap.NewController(serveAddr(cfg), cfg.Site.Title, cfg.Serve.MaintenancePage)
	_, err = controller.WithMaintenanceWindow(ctx, func(ctx context.Context) (*build.Report, error) {
		return runBuild(ctx, cfg, driver)
	})
	if err != nil && ctx.Err() == nil && controller.Handle() != nil {
		// Fatal failure: the placeholder keeps the endpoint answering until
		// the operator interrupts, then it is released cleanly.
		slog.Error("Build failed; maintenance page stays up until interrupt", logfields.Error(err))
		fmt.Println("Maintenance page is still serving. Press Ctrl-C to release the port and exit.")
		<-ctx.Done()
		if cerr := controller.Close(); cerr != nil {
			slog.Warn("Failed to stop placeholder", logfields.Error(cerr))
		}
	}
	return err
}
