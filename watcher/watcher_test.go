package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arloliu/datauri"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEncoder() *datauri.Encoder {
	return datauri.New(datauri.WithFilesystem(afero.NewOsFs()))
}

func setup(t *testing.T) (string, datauri.Context) {
	t.Helper()
	root := t.TempDir()
	views := filepath.Join(root, "views")
	require.NoError(t, os.MkdirAll(views, 0o755))

	return root, datauri.Context{ViewDir: views, AppRoot: root}
}

func next(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u, ok := <-updates:
		require.True(t, ok, "updates channel closed")
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestBuilder(t *testing.T) {
	t.Run("requires encoder", func(t *testing.T) {
		_, err := New(nil).Build()
		require.Error(t, err)

		var werr *WatcherError
		assert.ErrorAs(t, err, &werr)
	})

	t.Run("defaults and overrides", func(t *testing.T) {
		w, err := New(newEncoder()).Build()
		require.NoError(t, err)
		assert.Equal(t, defaultPollInterval, w.config.pollInterval)
		assert.Equal(t, defaultDebounceInterval, w.config.debounceInterval)

		w, err = New(newEncoder()).
			WithPollInterval(time.Second).
			WithDebounce(-1).
			Build()
		require.NoError(t, err)
		assert.Equal(t, time.Second, w.config.pollInterval)
		assert.Equal(t, defaultDebounceInterval, w.config.debounceInterval)
	})
}

func TestWatcher_Watch(t *testing.T) {
	t.Run("initial failure returned", func(t *testing.T) {
		_, rc := setup(t)
		w, err := New(newEncoder()).Build()
		require.NoError(t, err)

		_, err = w.Watch(context.Background(), "missing.txt", rc)
		assert.ErrorIs(t, err, datauri.ErrNotFound)
	})

	t.Run("emits initial and changed content", func(t *testing.T) {
		root, rc := setup(t)
		file := filepath.Join(root, "a.txt")
		require.NoError(t, os.WriteFile(file, []byte("one"), 0o600))

		w, err := New(newEncoder()).WithDebounce(50 * time.Millisecond).Build()
		require.NoError(t, err)
		defer w.Stop()

		updates, err := w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)

		first := next(t, updates)
		require.NoError(t, first.Err)
		assert.Equal(t, "data: text/plain;base64,b25l", first.URI)
		assert.Equal(t, root+"/a.txt", first.Path)

		require.NoError(t, os.WriteFile(file, []byte("two"), 0o600))

		second := next(t, updates)
		require.NoError(t, second.Err)
		assert.Equal(t, "data: text/plain;base64,dHdv", second.URI)
	})

	t.Run("new view file takes precedence", func(t *testing.T) {
		root, rc := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("root"), 0o600))

		w, err := New(newEncoder()).WithDebounce(50 * time.Millisecond).Build()
		require.NoError(t, err)
		defer w.Stop()

		updates, err := w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)
		assert.Equal(t, root+"/a.txt", next(t, updates).Path)

		require.NoError(t, os.WriteFile(filepath.Join(rc.ViewDir, "a.txt"), []byte("view"), 0o600))

		u := next(t, updates)
		require.NoError(t, u.Err)
		assert.Equal(t, rc.ViewDir+"/a.txt", u.Path)
	})

	t.Run("removal reported once", func(t *testing.T) {
		root, rc := setup(t)
		file := filepath.Join(root, "a.txt")
		require.NoError(t, os.WriteFile(file, []byte("one"), 0o600))

		w, err := New(newEncoder()).WithDebounce(50 * time.Millisecond).Build()
		require.NoError(t, err)
		defer w.Stop()

		updates, err := w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)
		next(t, updates)

		require.NoError(t, os.Remove(file))

		u := next(t, updates)
		assert.ErrorIs(t, u.Err, datauri.ErrNotFound)
		assert.Empty(t, u.URI)
	})

	t.Run("polling picks up changes", func(t *testing.T) {
		root, rc := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("one"), 0o600))

		w, err := New(newEncoder()).
			WithPollInterval(20 * time.Millisecond).
			WithDebounce(5 * time.Millisecond).
			Build()
		require.NoError(t, err)
		defer w.Stop()

		// the view directory is created after Watch, so only polling sees it
		rc.ViewDir = filepath.Join(root, "late")
		updates, err := w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)
		next(t, updates)

		require.NoError(t, os.MkdirAll(rc.ViewDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(rc.ViewDir, "a.txt"), []byte("late"), 0o600))

		u := next(t, updates)
		require.NoError(t, u.Err)
		assert.Equal(t, rc.ViewDir+"/a.txt", u.Path)
	})

	t.Run("already running", func(t *testing.T) {
		root, rc := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("one"), 0o600))

		w, err := New(newEncoder()).Build()
		require.NoError(t, err)
		defer w.Stop()

		_, err = w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)

		_, err = w.Watch(context.Background(), "a.txt", rc)
		var werr *WatcherError
		assert.ErrorAs(t, err, &werr)
	})

	t.Run("stop closes channel", func(t *testing.T) {
		root, rc := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("one"), 0o600))

		w, err := New(newEncoder()).Build()
		require.NoError(t, err)

		updates, err := w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)
		next(t, updates)

		w.Stop()
		w.Stop()

		_, ok := <-updates
		assert.False(t, ok)
	})

	t.Run("context cancel closes channel", func(t *testing.T) {
		root, rc := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("one"), 0o600))

		w, err := New(newEncoder()).Build()
		require.NoError(t, err)
		defer w.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		updates, err := w.Watch(ctx, "a.txt", rc)
		require.NoError(t, err)
		next(t, updates)

		cancel()

		select {
		case _, ok := <-updates:
			assert.False(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})

	t.Run("reusable after context cancel", func(t *testing.T) {
		root, rc := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("one"), 0o600))

		w, err := New(newEncoder()).Build()
		require.NoError(t, err)
		defer w.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		updates, err := w.Watch(ctx, "a.txt", rc)
		require.NoError(t, err)
		next(t, updates)
		cancel()

		require.Eventually(t, func() bool {
			w.mu.Lock()
			defer w.mu.Unlock()
			return !w.running
		}, 5*time.Second, 10*time.Millisecond)

		updates, err = w.Watch(context.Background(), "a.txt", rc)
		require.NoError(t, err)
		assert.Equal(t, "data: text/plain;base64,b25l", next(t, updates).URI)
	})
}
