package journal

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_ReportsExternalNoteChanges(t *testing.T) {
	noteDir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, noteDir, logger, func(kind, user, name string) {
		mu.Lock()
		events = append(events, kind+":"+user+":"+name)
		mu.Unlock()
	}, "alice")

	time.Sleep(100 * time.Millisecond)

	notePath := filepath.Join(noteDir, "20240101_Dropped.md")
	_ = os.WriteFile(notePath, []byte("# Dropped"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "note.created:alice:20240101_Dropped.md" {
				return true
			}
		}
		return false
	}, "external note creation not reported")

	// Non-markdown files are ignored.
	_ = os.WriteFile(filepath.Join(noteDir, "ignore.txt"), []byte("x"), 0o644)

	_ = os.Remove(notePath)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "note.deleted:alice:20240101_Dropped.md" {
				return true
			}
		}
		return false
	}, "external note removal not reported")

	mu.Lock()
	defer mu.Unlock()
	for _, e := range events {
		if filepath.Ext(e) == ".txt" {
			t.Errorf("non-markdown file reported: %s", e)
		}
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	noteDir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, noteDir, logger, nil, "alice")
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop after context cancel")
	}
}
