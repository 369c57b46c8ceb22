package gitfetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/siteforge/internal/config"
	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// initSourceRepo creates a local repository with one commit to clone from.
func initSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("# content\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("index.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial content", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestSyncClonesThenUpdates(t *testing.T) {
	src := initSourceRepo(t)
	dst := filepath.Join(t.TempDir(), "content")

	client := NewClient(dst, config.ContentConfig{Repo: src})

	path, err := client.Sync()
	require.NoError(t, err)
	assert.Equal(t, dst, path)
	assert.FileExists(t, filepath.Join(dst, "index.md"))

	// Second sync takes the update path; an unchanged source is up to date.
	path, err = client.Sync()
	require.NoError(t, err)
	assert.Equal(t, dst, path)
}

func TestSyncWithoutRepoConfigured(t *testing.T) {
	client := NewClient(t.TempDir(), config.ContentConfig{})
	_, err := client.Sync()
	require.Error(t, err)
	assert.Equal(t, sferrors.CategoryConfig, sferrors.CategoryOf(err))
}

func TestSyncCloneFailure(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "content")
	client := NewClient(dst, config.ContentConfig{Repo: filepath.Join(t.TempDir(), "no-such-repo")})

	_, err := client.Sync()
	require.Error(t, err)
	assert.Equal(t, sferrors.CategoryGit, sferrors.CategoryOf(err))
}
