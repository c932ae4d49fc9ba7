// Package sweeper removes uploaded and processed files after their
// retention window so the service can run unattended without filling
// its disk.
package sweeper

import (
	"os"
	"path/filepath"
	"time"

	"pose-viewer/internal/logging"
	"pose-viewer/internal/metrics"
)

const (
	// DefaultRetention is how long files are kept after their last
	// modification.
	DefaultRetention = 2 * time.Hour

	// DefaultInterval is how often the background sweep runs.
	DefaultInterval = 30 * time.Minute
)

// Sweeper deletes expired files from a set of directories.
type Sweeper struct {
	dirs      []string
	retention time.Duration
	interval  time.Duration

	// onRemove, when set, is notified per deleted file. Used by the
	// metrics wiring and by tests.
	onRemove func(path string)

	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a sweeper over the given directories. Non-positive
// retention or interval values fall back to the defaults.
func New(dirs []string, retention, interval time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		dirs:      dirs,
		retention: retention,
		interval:  interval,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// OnRemove registers a callback invoked for every deleted file. Must be
// called before Start.
func (s *Sweeper) OnRemove(fn func(path string)) {
	s.onRemove = fn
}

// Start launches the background sweep loop. An immediate sweep runs
// first so a restart does not extend retention.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.doneChan)

		s.Sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stopChan:
				return
			}
		}
	}()
	logging.Info("retention sweeper started: retention=%s interval=%s dirs=%v",
		s.retention, s.interval, s.dirs)
}

// Stop halts the background loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stopChan)
	<-s.doneChan
}

// Sweep removes every regular file older than the retention window from
// the configured directories. Errors are logged and skipped; a missing
// directory is not an error.
func (s *Sweeper) Sweep() {
	metrics.SweeperRunsTotal.Inc()
	cutoff := time.Now().Add(-s.retention)
	removed := 0

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Warn("sweep: read %s: %v", dir, err)
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				logging.Warn("sweep: remove %s: %v", path, err)
				continue
			}
			removed++
			logging.Debug("sweep: removed %s (age %s)", path, time.Since(info.ModTime()).Round(time.Second))
			if s.onRemove != nil {
				s.onRemove(path)
			}
		}
	}

	if removed > 0 {
		metrics.SweeperFilesRemoved.Add(float64(removed))
		logging.Info("sweep: removed %d expired files", removed)
	}
}
