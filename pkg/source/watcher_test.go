package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crosswire"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewWatcherValidation(t *testing.T) {
	_, err := NewWatcher(nil, []string{"a.yaml"})
	assert.Error(t, err)

	noop := func(context.Context, *File) error { return nil }
	_, err = NewWatcher(noop, nil)
	assert.Error(t, err)

	_, err = NewWatcher(noop, []string{"a.txt"})
	assert.Error(t, err)
}

func TestWatcherAppendsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	writeFile(t, path, "Greeting: Hello\n")

	reg := crosswire.NewRegistry(crosswire.WithName("watched"))
	initial, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, reg.Apply(context.Background(), initial))

	var (
		mu      sync.Mutex
		reloads int
	)
	appendFn := AppendTo(reg)
	watcher, err := NewWatcher(func(ctx context.Context, file *File) error {
		mu.Lock()
		reloads++
		mu.Unlock()
		return appendFn(ctx, file)
	}, []string{path}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Give the notifier time to register the directory.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "Greeting: Hola\nExtra: 1\n")

	require.Eventually(t, func() bool {
		value, err := reg.Dependency(context.Background(), "Greeting")
		return err == nil && value == "Hola"
	}, 2*time.Second, 10*time.Millisecond)

	extra, err := reg.Dependency(context.Background(), "Extra")
	require.NoError(t, err)
	assert.Equal(t, 1, extra)

	mu.Lock()
	count := reloads
	mu.Unlock()
	assert.GreaterOrEqual(t, count, 1)
}

func TestWatcherSkipsInvalidContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	writeFile(t, path, `{"A": 1}`)

	calls := make(chan *File, 4)
	watcher, err := NewWatcher(func(_ context.Context, file *File) error {
		calls <- file
		return errors.New("rejected")
	}, []string{path}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, `{"A":`)
	writeFile(t, filepath.Join(dir, "other.json"), `{"B": 2}`)

	select {
	case file := <-calls:
		t.Fatalf("unexpected reload of %s", file.Name())
	case <-time.After(200 * time.Millisecond):
	}

	writeFile(t, path, `{"A": 2}`)
	select {
	case file := <-calls:
		assert.Equal(t, crosswire.Raw(float64(2)), file.Settings()["A"])
	case <-time.After(2 * time.Second):
		t.Fatalf("expected reload after valid write")
	}
}

func TestWatcherLoopReleasesTimersWhenChannelsClose(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("testdata", "app.yaml"))
	require.NoError(t, err)
	watcher, err := NewWatcher(func(context.Context, *File) error { return nil }, []string{path},
		WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	events := make(chan fsnotify.Event, 1)
	errs := make(chan error)
	pending := make(chan string)
	events <- fsnotify.Event{Name: path, Op: fsnotify.Write}

	done := make(chan error, 1)
	go func() { done <- watcher.loop(context.Background(), events, errs, pending) }()

	// Let the loop arm the debounce timer before the channel closes.
	require.Eventually(t, func() bool { return len(events) == 0 }, time.Second, time.Millisecond)
	close(events)
	assert.ErrorContains(t, <-done, "events channel closed")

	time.Sleep(50 * time.Millisecond)
	select {
	case path := <-pending:
		t.Fatalf("debounce timer for %s was still waiting to deliver", path)
	case <-time.After(20 * time.Millisecond):
	}
}
