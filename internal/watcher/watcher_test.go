// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"node_modules", ".git"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a markdown file
	testFile := filepath.Join(tmpDir, "model.md")
	os.WriteFile(testFile, []byte("# Model"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-markdown files are ignored.
	otherFile := filepath.Join(tmpDir, "main.go")
	os.WriteFile(otherFile, []byte("package main"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "main.go" {
				t.Error("Non-markdown file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "docs")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.md")
	if err := os.WriteFile(subFile, []byte("# Nested"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
				}
			}
		case <-timeout:
			t.Fatal("Timed out waiting for nested file change event")
		}
	}
}

func TestWatcherRequiresCallback(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, nil, nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

func TestWatcherDebounceCollapsesBursts(t *testing.T) {
	tmpDir := t.TempDir()

	calls := make(chan []string, 4)
	w, err := NewWatcher(200*time.Millisecond, nil, func(paths []string) {
		calls <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	a := filepath.Join(tmpDir, "a.md")
	b := filepath.Join(tmpDir, "b.md")
	os.WriteFile(a, []byte("one"), 0644)
	os.WriteFile(b, []byte("two"), 0644)

	select {
	case paths := <-calls:
		if len(paths) < 2 {
			// Timing-dependent, but both writes landed before the debounce
			// window closed, so they should batch together.
			t.Logf("burst produced %d paths: %v", len(paths), paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for debounced callback")
	}
}
