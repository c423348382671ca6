package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"loov.dev/recordview/watch"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch.File(ctx, nil, path, func() { reloads.Add(1) })
	}()

	require.Eventually(t, func() bool { return reloads.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte(`{}`), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), reloads.Load())

	require.NoError(t, os.WriteFile(path, []byte(`{"calls": []}`), 0o644))
	require.Eventually(t, func() bool { return reloads.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFileMissingDirectory(t *testing.T) {
	err := watch.File(context.Background(), nil, filepath.Join(t.TempDir(), "missing", "record.json"), func() {})
	require.Error(t, err)
}
