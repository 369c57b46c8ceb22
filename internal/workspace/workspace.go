// Package workspace manages the directories siteforge works in: the
// persistent content workspace and ephemeral scratch directories (e.g. for
// the maintenance page).
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/siteforge/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a workspace manager with ephemeral timestamped directories.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a manager using a fixed directory that is not
// removed on Cleanup.
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "working"
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, subdirName),
		persistent: true,
	}
}

// Create creates the workspace directory. Ephemeral managers get a fresh
// timestamped directory; persistent ones ensure the fixed directory exists.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("create persistent workspace directory: %w", err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(m.baseDir, fmt.Sprintf("siteforge-%s", timestamp))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory path.
func (m *Manager) Path() string {
	return m.dir
}

// Cleanup removes ephemeral workspace directories; persistent ones are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("cleanup workspace: %w", err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// WriteFile writes a file inside the workspace, creating parent directories.
func (m *Manager) WriteFile(name string, data []byte) (string, error) {
	if m.dir == "" {
		return "", fmt.Errorf("workspace not created")
	}
	path := filepath.Join(m.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write workspace file: %w", err)
	}
	return path, nil
}
