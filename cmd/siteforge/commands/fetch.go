package commands

import (
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/gitfetch"
)

// FetchCmd clones or fast-forwards the configured content repository into the
// workspace.
type FetchCmd struct{}

func (f *FetchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	client := gitfetch.NewClient(cfg.Workspace, cfg.Content)
	path, err := client.Sync()
	if err != nil {
		return err
	}
	fmt.Println("Content checkout:", path)
	return nil
}
