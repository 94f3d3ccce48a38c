package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsTrackedWrites(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "a.ml")
	other := filepath.Join(dir, "b.ml")
	for _, f := range []string{tracked, other} {
		if err := os.WriteFile(f, []byte("x = 1;"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	w, err := New([]string{tracked}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(path string) { changed <- path }) }()

	if err := os.WriteFile(other, []byte("x = 2;"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(tracked, []byte("x = 3;"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-changed:
		if got != tracked {
			t.Fatalf("changed path = %s, want %s", got, tracked)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run() did not return after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "nope", "a.ml")}, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
