package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherTriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	var triggers atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, nil, 50*time.Millisecond, func() { triggers.Add(1) })
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	// Give the watcher time to install.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.md"), []byte("x"), 0o644))

	deadline := time.Now().Add(3 * time.Second)
	for triggers.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no trigger after file change")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	<-done
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var triggers atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, nil, 200*time.Millisecond, func() { triggers.Add(1) })
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// A burst of writes within the debounce window.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page.md"), []byte{byte(i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(600 * time.Millisecond)
	if n := triggers.Load(); n != 1 {
		t.Errorf("triggers = %d, want 1 (debounced)", n)
	}
}

func TestWatcherIgnoresOutputDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "public"), 0o750))
	var triggers atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, []string{"public"}, 50*time.Millisecond, func() { triggers.Add(1) })
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "public", "index.html"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)

	if triggers.Load() != 0 {
		t.Error("output directory changes must not retrigger builds")
	}
}
