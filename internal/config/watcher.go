package config

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Watcher polls a config file for changes and atomically swaps in a
// reloaded Config, the same polling design as the teacher's
// internal/config.FileWatcher (no fsnotify dependency — graft's own
// watcher polls os.Stat on an interval too): every tick it stats the
// file and only re-reads and re-parses it once the mtime has advanced
// past lastModTime.
//
// The core never mutates entity-graph state as a side effect of a reload;
// callers read the current Config via Current() before starting a pass.
type Watcher struct {
	loader      *Loader
	path        string
	interval    time.Duration
	lastModTime time.Time

	current atomic.Pointer[Config]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts watching path for changes, polling every interval.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	loader := NewLoader()
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := loader.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	var lastModTime time.Time
	if info, err := os.Stat(path); err == nil {
		lastModTime = info.ModTime()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{loader: loader, path: path, interval: interval, lastModTime: lastModTime, cancel: cancel}
	w.current.Store(cfg)

	w.wg.Add(1)
	go w.run(ctx)
	return w, nil
}

// Current returns the most recently loaded Config.
func (w *Watcher) Current() *Config { return w.current.Load() }

// Stop halts the polling goroutine.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil || !info.ModTime().After(w.lastModTime) {
				continue
			}

			cfg, err := w.loader.LoadFile(w.path)
			if err != nil {
				continue
			}
			if err := w.loader.ApplyEnv(cfg); err != nil {
				continue
			}
			w.lastModTime = info.ModTime()
			w.current.Store(cfg)
		}
	}
}
