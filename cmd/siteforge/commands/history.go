package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/siteforge/internal/config"
	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/history"
)

// HistoryCmd lists recent build runs from the history store.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of runs to list"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return sferrors.New(sferrors.CategoryConfig, sferrors.SeverityFatal, "history is not configured (set history.path)")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recorded builds.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %-8s  %d units", e.Start.Format(time.RFC3339), e.RunID[:8], e.Outcome, e.Units)
		if len(e.FailedUnits) > 0 {
			line += fmt.Sprintf("  failed: %v", e.FailedUnits)
		}
		fmt.Println(line)
	}
	return nil
}
