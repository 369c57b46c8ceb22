package commands

import (
	"fmt"

	"git.home.luguber.info/inful/siteforge/internal/config"
)

// InitCmd writes a starter configuration file.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Println("Wrote", root.Config)
	return nil
}
