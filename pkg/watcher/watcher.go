package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cratewatch/cratewatch/pkg/logging"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeManifest ChangeType = iota // Cargo.toml edited
	ChangeTypeLockfile                   // Cargo.lock rewritten by cargo
)

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// ManifestWatcher watches the directory of a workspace manifest for changes
// to Cargo.toml and Cargo.lock, the two files that can invalidate a
// gathered registry.
type ManifestWatcher struct {
	watcher  *fsnotify.Watcher
	manifest string
	events   chan ChangeEvent
}

// NewManifestWatcher creates a watcher for the given Cargo.toml path
func NewManifestWatcher(manifest string) (*ManifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &ManifestWatcher{
		watcher:  watcher,
		manifest: manifest,
		events:   make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for file changes
func (mw *ManifestWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(mw.manifest)
	if err := mw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("watching manifest directory", "path", dir)
	go mw.processEvents(ctx)
	return nil
}

// Events returns the channel of batched change events
func (mw *ManifestWatcher) Events() <-chan ChangeEvent {
	return mw.events
}

// processEvents filters and batches raw fsnotify events
func (mw *ManifestWatcher) processEvents(ctx context.Context) {
	var manifests []string
	var lockfiles []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(manifests) > 0 {
			mw.events <- ChangeEvent{Type: ChangeTypeManifest, Paths: manifests, Timestamp: time.Now()}
			manifests = nil
		}
		if len(lockfiles) > 0 {
			mw.events <- ChangeEvent{Type: ChangeTypeLockfile, Paths: lockfiles, Timestamp: time.Now()}
			lockfiles = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			mw.watcher.Close()
			close(mw.events)
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			// Writes and renames both matter: cargo rewrites Cargo.lock
			// via rename on some platforms.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			switch filepath.Base(event.Name) {
			case "Cargo.toml":
				manifests = append(manifests, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			case "Cargo.lock":
				lockfiles = append(lockfiles, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			}

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error", "error", err)

		case <-flushTimer.C:
			flush()
		}
	}
}
