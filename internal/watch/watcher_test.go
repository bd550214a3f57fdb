package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitRun(t *testing.T, runs <-chan error) error {
	t.Helper()
	select {
	case err := <-runs:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run")
		return nil
	}
}

func TestNew_NoFiles(t *testing.T) {
	_, err := New(nil, time.Second, func(context.Context) error { return nil })
	require.Error(t, err)
}

func TestNew_SharedDirectoryWatchedOnce(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "a.faa"), filepath.Join(dir, "b.faa")}, time.Second,
		func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Len(t, w.dirs, 1)
	require.Len(t, w.files, 2)
}

func TestRun_InitialRunAndRerunOnChange(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.faa")
	b := filepath.Join(dir, "b.faa")
	require.NoError(t, os.WriteFile(a, []byte(">g1\nMK\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte(">h1\nMK\n"), 0644))

	var calls atomic.Int32
	w, err := New([]string{a, b}, 50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.runs = make(chan error, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, waitRun(t, w.runs))
	require.Equal(t, int32(1), calls.Load())

	// Several writes within the debounce window coalesce into one run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(a, []byte(">g1\nMKV\n"), 0644))
	}
	require.NoError(t, waitRun(t, w.runs))
	require.Equal(t, int32(2), calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.faa")
	require.NoError(t, os.WriteFile(a, []byte(">g1\nMK\n"), 0644))

	w, err := New([]string{a}, 20*time.Millisecond, func(context.Context) error { return nil })
	require.NoError(t, err)
	w.runs = make(chan error, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	require.NoError(t, waitRun(t, w.runs))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.to.b.tab"), []byte("g1\th1\t9\n"), 0644))

	select {
	case <-w.runs:
		t.Fatal("unrelated file triggered a run")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRun_ErrorsDoNotStopWatching(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.faa")
	require.NoError(t, os.WriteFile(a, []byte(">g1\nMK\n"), 0644))

	boom := errors.New("aligner failed")
	w, err := New([]string{a}, 20*time.Millisecond, func(context.Context) error { return boom })
	require.NoError(t, err)
	w.runs = make(chan error, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.ErrorIs(t, waitRun(t, w.runs), boom)
	require.NoError(t, os.WriteFile(a, []byte(">g1\nMKK\n"), 0644))
	require.ErrorIs(t, waitRun(t, w.runs), boom)
}
