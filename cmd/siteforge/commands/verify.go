package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/siteforge/internal/config"
	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/linkverify"
)

// VerifyCmd checks internal links in the built site output.
type VerifyCmd struct {
	SiteDir string `short:"d" help:"Site directory to verify (defaults to the configured output)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	siteDir := v.SiteDir
	if siteDir == "" {
		siteDir = filepath.Join(cfg.Workspace, cfg.Serve.SiteDir)
	}

	broken, err := linkverify.VerifySite(siteDir)
	if err != nil {
		return sferrors.Wrap(err, sferrors.CategoryFileSystem, sferrors.SeverityFatal, "link verification failed")
	}
	if len(broken) == 0 {
		fmt.Println("All internal links resolve.")
		return nil
	}
	fmt.Printf("%d broken internal links:\n", len(broken))
	for _, b := range broken {
		fmt.Printf("  %s\n", b)
	}
	return sferrors.New(sferrors.CategoryValidation, sferrors.SeverityFatal, fmt.Sprintf("%d broken internal links", len(broken)))
}
