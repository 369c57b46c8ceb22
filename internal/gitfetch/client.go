// Package gitfetch pulls the site content repository into the workspace, so a
// build can run against a fresh checkout without shelling out to git.
package gitfetch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/siteforge/internal/config"
	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/logfields"
)

// Client fetches the content repository into a fixed directory.
type Client struct {
	dir string
	cfg config.ContentConfig
}

// NewClient creates a client targeting dir.
func NewClient(dir string, cfg config.ContentConfig) *Client {
	return &Client{dir: dir, cfg: cfg}
}

// Sync clones the repository on first use and fast-forwards an existing
// checkout afterwards. Returns the checkout path.
func (c *Client) Sync() (string, error) {
	if c.cfg.Repo == "" {
		return "", sferrors.New(sferrors.CategoryConfig, sferrors.SeverityFatal, "no content repository configured")
	}
	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return c.clone()
	}
	return c.update()
}

func (c *Client) clone() (string, error) {
	slog.Info("Cloning content repository", logfields.URL(c.cfg.Repo), logfields.Path(c.dir))
	opts := &git.CloneOptions{URL: c.cfg.Repo, Progress: os.Stdout, Auth: c.auth()}
	if c.cfg.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + c.cfg.Branch)
		opts.SingleBranch = true
	}
	repo, err := git.PlainClone(c.dir, false, opts)
	if err != nil {
		return "", sferrors.Wrap(err, sferrors.CategoryGit, sferrors.SeverityFatal, "clone failed").
			WithContext("url", c.cfg.Repo)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Content repository cloned", slog.String("commit", ref.Hash().String()[:8]))
	}
	return c.dir, nil
}

func (c *Client) update() (string, error) {
	repo, err := git.PlainOpen(c.dir)
	if err != nil {
		return "", sferrors.Wrap(err, sferrors.CategoryGit, sferrors.SeverityFatal, "open existing checkout failed").
			WithContext("path", c.dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}
	pullOpts := &git.PullOptions{Progress: os.Stdout, Auth: c.auth()}
	if c.cfg.Branch != "" {
		pullOpts.ReferenceName = plumbing.ReferenceName("refs/heads/" + c.cfg.Branch)
	}
	err = wt.Pull(pullOpts)
	switch {
	case err == nil:
		slog.Info("Content repository updated", logfields.Path(c.dir))
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Info("Content repository already up to date", logfields.Path(c.dir))
	default:
		return "", sferrors.Wrap(err, sferrors.CategoryGit, sferrors.SeverityFatal, "pull failed").
			WithContext("path", c.dir)
	}
	return c.dir, nil
}

func (c *Client) auth() *http.BasicAuth {
	if c.cfg.Token == "" {
		return nil
	}
	username := c.cfg.Username
	if username == "" {
		username = "token"
	}
	return &http.BasicAuth{Username: username, Password: c.cfg.Token}
}
