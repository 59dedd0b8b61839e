package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func collectChanges(t *testing.T, debounce time.Duration) (*Watcher, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var collected []string
	w, err := NewWatcher(debounce, []string{".build"}, []string{"*.skip.swift"}, func(paths []string) {
		mu.Lock()
		collected = append(collected, paths...)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = w.Close() })

	return w, func() []string {
		mu.Lock()
		defer mu.Unlock()
		out := make([]string, len(collected))
		copy(out, collected)
		return out
	}
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	w, changes := collectChanges(t, 50*time.Millisecond)
	if err := w.Watch([]string{dir}); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(dir, "App.swift")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("class A {}"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(changes()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := changes()
	if len(got) != 1 {
		t.Fatalf("expected one debounced change, got %v", got)
	}
	if got[0] != target {
		t.Errorf("unexpected path %q", got[0])
	}
}

func TestWatcher_IgnoresNonSwiftAndGenerated(t *testing.T) {
	dir := t.TempDir()
	w, changes := collectChanges(t, 30*time.Millisecond)
	if err := w.Watch([]string{dir}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"notes.txt", "Loom.App.swift", "Extra.skip.swift"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(300 * time.Millisecond)
	if got := changes(); len(got) != 0 {
		t.Fatalf("expected no changes, got %v", got)
	}
}

func TestWatcher_RequiresCallback(t *testing.T) {
	if _, err := NewWatcher(time.Second, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}
