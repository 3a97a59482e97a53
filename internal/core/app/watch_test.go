package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"codecorrect/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChangeSource struct {
	mu      sync.Mutex
	watched []string
	closed  bool
}

func (f *fakeChangeSource) Watch(paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watched = append(f.watched, paths...)
	return nil
}

func (f *fakeChangeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestResolveChanged_OnlyRewritesChangedHeaders(t *testing.T) {
	root := includeTree(t)
	extra := filepath.Join(root, "src", "Core", "include", "core", "scene.h")
	require.NoError(t, os.WriteFile(extra, []byte("#include <vector>\nclass Mesh;\nclass Scene {\n};\n"), 0o644))

	a := newTestApp(t, root, includeRoots, Options{})
	report, err := a.ResolveChanged(context.Background(), []string{filepath.Join(root, filepath.FromSlash(worldPath))})
	require.NoError(t, err)

	assert.Equal(t, 1, report.HeadersScanned)
	assert.Equal(t, 1, report.HeadersRewritten)
	assert.Equal(t, worldRewritten, readFile(t, root, worldPath))
	assert.Equal(t, "#include <vector>\nclass Mesh;\nclass Scene {\n};\n", readFile(t, root, "src/Core/include/core/scene.h"))
}

func TestRunWatch_ProcessesBatchesUntilCancelled(t *testing.T) {
	root := includeTree(t)
	a := newTestApp(t, root, includeRoots, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeChangeSource{}
	batches := make(chan []string, 1)
	batches <- []string{filepath.Join(root, filepath.FromSlash(worldPath))}

	var got []ports.IncludeReport
	done := make(chan error, 1)
	go func() {
		done <- a.runWatch(ctx, src, batches, func(r ports.IncludeReport) {
			got = append(got, r)
			cancel()
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].HeadersRewritten)
	assert.True(t, src.closed)
	assert.Equal(t, a.Paths.Roots, src.watched)
	assert.Equal(t, worldRewritten, readFile(t, root, worldPath))
}
