package sweeper

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestSweepRemovesExpiredKeepsFresh(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.mp4")
	fresh := filepath.Join(dir, "fresh.mp4")
	touch(t, old, 3*time.Hour)
	touch(t, fresh, time.Minute)

	s := New([]string{dir}, 2*time.Hour, time.Hour)
	s.Sweep()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired file survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
}

func TestSweepSpansMultipleDirectories(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(a, "a.mp4"), 3*time.Hour)
	touch(t, filepath.Join(b, "b.mp4"), 3*time.Hour)

	var removed []string
	s := New([]string{a, b}, 2*time.Hour, time.Hour)
	s.OnRemove(func(path string) { removed = append(removed, path) })
	s.Sweep()

	if len(removed) != 2 {
		t.Errorf("removed %v, want 2 files", removed)
	}
}

func TestSweepToleratesMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.mp4"), 3*time.Hour)

	s := New([]string{filepath.Join(dir, "nope"), dir}, 2*time.Hour, time.Hour)
	s.Sweep()

	if _, err := os.Stat(filepath.Join(dir, "old.mp4")); !os.IsNotExist(err) {
		t.Error("sweep stopped at the missing directory")
	}
}

func TestSweepSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	when := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(sub, when, when); err != nil {
		t.Fatal(err)
	}

	New([]string{dir}, 2*time.Hour, time.Hour).Sweep()

	if _, err := os.Stat(sub); err != nil {
		t.Errorf("subdirectory removed: %v", err)
	}
}

func TestStartRunsImmediateSweepAndStops(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.mp4")
	touch(t, old, 3*time.Hour)

	s := New([]string{dir}, 2*time.Hour, time.Hour)
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(old); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("startup sweep did not remove the expired file")
}
