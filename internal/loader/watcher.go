// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/cubetui/internal/cube"
)

// ReloadFunc receives the freshly loaded cube after the watched file
// changes, or the error the reload hit.
type ReloadFunc func(c *cube.Cube, err error)

// CubeWatcher is the interface for cube file watching implementations.
type CubeWatcher interface {
	// Watch starts watching for file changes.
	Watch() error

	// Close stops watching and releases resources.
	Close() error
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher reloads one cube file through fsnotify. The parent
// directory is watched rather than the file itself, since most writers
// replace the file by rename. Changes are debounced so half-written
// files are not loaded, and reloads are rate limited to one per second
// regardless of how fast events arrive.
type FsnotifyWatcher struct {
	path     string
	reload   ReloadFunc
	watcher  *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	mu       sync.Mutex
	pending  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewFsnotifyWatcher creates a new fsnotify-based watcher for path.
func NewFsnotifyWatcher(path string, debounce time.Duration, reload ReloadFunc) (*FsnotifyWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FsnotifyWatcher{
		path:     abs,
		reload:   reload,
		watcher:  watcher,
		debounce: debounce,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for file changes.
func (fw *FsnotifyWatcher) Watch() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return err
	}
	go fw.processEvents()
	go fw.processPending()
	return nil
}

func (fw *FsnotifyWatcher) processEvents() {
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.mu.Unlock()
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; the polling fallback exists for broken
			// platforms, not for transient errors.
		}
	}
}

// processPending fires the reload once the change stream has been
// quiet for the debounce window.
func (fw *FsnotifyWatcher) processPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			fw.mu.Lock()
			due := !fw.pending.IsZero() && time.Since(fw.pending) >= fw.debounce
			if due && !fw.limiter.Allow() {
				// Over the reload budget: keep the change pending and
				// try again on a later tick.
				fw.mu.Unlock()
				continue
			}
			if due {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()

			if due {
				c, err := Open(fw.path)
				fw.reload(c, err)
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher reloads the cube file when its modification time
// moves, for platforms where fsnotify is unavailable.
type PollingWatcher struct {
	path     string
	reload   ReloadFunc
	interval time.Duration
	modTime  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPollingWatcher creates a new polling-based watcher for path.
func NewPollingWatcher(path string, interval time.Duration, reload ReloadFunc) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &PollingWatcher{
		path:     path,
		reload:   reload,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch records the current modification time and starts polling.
func (pw *PollingWatcher) Watch() error {
	if info, err := os.Stat(pw.path); err == nil {
		pw.modTime = info.ModTime()
	}
	go pw.poll()
	return nil
}

func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(pw.path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(pw.modTime) {
				continue
			}
			pw.modTime = info.ModTime()
			c, err := Open(pw.path)
			pw.reload(c, err)
		}
	}
}

// Close stops watching.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// NewWatcher starts the file watcher, preferring fsnotify and falling
// back to polling.
func NewWatcher(path string, reload ReloadFunc) (CubeWatcher, error) {
	fw, err := NewFsnotifyWatcher(path, 200*time.Millisecond, reload)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return fw, nil
		}
		fw.Close()
	}

	pw := NewPollingWatcher(path, 2*time.Second, reload)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return pw, nil
}
