package api

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the bursts of events a single save produces.
const debounceDelay = 100 * time.Millisecond

// FileChangeType indicates what type of change occurred.
type FileChangeType string

const (
	FileChangeCreated  FileChangeType = "created"
	FileChangeModified FileChangeType = "modified"
	FileChangeDeleted  FileChangeType = "deleted"
)

// DeckFileChange represents a change to the deck document on disk.
type DeckFileChange struct {
	Type FileChangeType `json:"type"`
	Path string         `json:"path"`
}

// FileWatcherSubscriber receives deck file change notifications.
type FileWatcherSubscriber interface {
	OnDeckFileChange(change DeckFileChange)
}

// FileWatcher watches the deck file for changes made by other processes
// (an editor, a second CLI) and notifies subscribers.
//
// The directory is watched rather than the file, because saves replace the
// file by renaming a temp file over it and a file watch would be lost.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	deckFile    string
	dir         string
	mu          sync.RWMutex
	subscribers []FileWatcherSubscriber
	debounce    *time.Timer
	pending     fsnotify.Event
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewFileWatcher creates a new file watcher for the deck file.
func NewFileWatcher(deckFile string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	deckFile = filepath.Clean(deckFile)

	fw := &FileWatcher{
		watcher:  watcher,
		deckFile: deckFile,
		dir:      filepath.Dir(deckFile),
		stopCh:   make(chan struct{}),
	}

	return fw, nil
}

// Subscribe adds a subscriber to receive change notifications.
func (fw *FileWatcher) Subscribe(sub FileWatcherSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.subscribers = append(fw.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (fw *FileWatcher) Unsubscribe(sub FileWatcherSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for i, s := range fw.subscribers {
		if s == sub {
			fw.subscribers = append(fw.subscribers[:i], fw.subscribers[i+1:]...)
			return
		}
	}
}

// Start begins watching the deck file's directory, creating it if needed.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("file watcher cannot be restarted after stop")
	}
	fw.running = true
	fw.mu.Unlock()

	if err := os.MkdirAll(fw.dir, 0755); err != nil {
		return fmt.Errorf("failed to create deck directory: %w", err)
	}
	if err := fw.watcher.Add(fw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}

	go fw.run()
	return nil
}

// Stop stops watching for changes.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.stopped = true
	fw.mu.Unlock()

	// Cancel a pending debounce so it can't fire after stop
	fw.debounceMu.Lock()
	if fw.debounce != nil {
		fw.debounce.Stop()
		fw.debounce = nil
	}
	fw.debounceMu.Unlock()

	close(fw.stopCh)
	return fw.watcher.Close()
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-fw.stopCh:
			return
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.deckFile {
		return // Sibling files, including our own hidden temp files
	}

	// Debounce: ops within a burst are merged into one event
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	fw.pending.Name = event.Name
	fw.pending.Op |= event.Op
	if fw.debounce != nil {
		fw.debounce.Stop()
	}
	fw.debounce = time.AfterFunc(debounceDelay, func() {
		fw.debounceMu.Lock()
		merged := fw.pending
		fw.pending = fsnotify.Event{}
		fw.debounce = nil
		fw.debounceMu.Unlock()

		fw.emitChange(merged)
	})
}

func (fw *FileWatcher) emitChange(event fsnotify.Event) {
	// Check if watcher was stopped (debounce timer may fire after Stop)
	fw.mu.RLock()
	if fw.stopped {
		fw.mu.RUnlock()
		return
	}
	subs := make([]FileWatcherSubscriber, len(fw.subscribers))
	copy(subs, fw.subscribers)
	fw.mu.RUnlock()

	change, ok := classifyChange(event)
	if !ok {
		return
	}

	for _, sub := range subs {
		sub.OnDeckFileChange(change)
	}
}

// classifyChange maps an fsnotify event on the deck file to a change.
// Chmod-only events are ignored.
func classifyChange(event fsnotify.Event) (DeckFileChange, bool) {
	change := DeckFileChange{Path: event.Name}

	switch {
	case event.Op&fsnotify.Create != 0:
		change.Type = FileChangeCreated
	case event.Op&fsnotify.Write != 0:
		change.Type = FileChangeModified
	case event.Op&fsnotify.Remove != 0:
		change.Type = FileChangeDeleted
	case event.Op&fsnotify.Rename != 0:
		change.Type = FileChangeDeleted // Rename source is effectively deleted
	default:
		return DeckFileChange{}, false
	}

	return change, true
}
