package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amterp/elysian/internal/store"
	"github.com/amterp/elysian/testutil"
	"github.com/fsnotify/fsnotify"
)

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		name     string
		op       fsnotify.Op
		wantType FileChangeType
		wantOK   bool
	}{
		{"created", fsnotify.Create, FileChangeCreated, true},
		{"modified", fsnotify.Write, FileChangeModified, true},
		{"deleted", fsnotify.Remove, FileChangeDeleted, true},
		{"renamed (treated as deleted)", fsnotify.Rename, FileChangeDeleted, true},
		{"merged burst prefers create", fsnotify.Write | fsnotify.Create | fsnotify.Chmod, FileChangeCreated, true},
		{"chmod only", fsnotify.Chmod, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: "/data/decks.json", Op: tt.op}
			change, ok := classifyChange(event)

			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if change.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", change.Type, tt.wantType)
			}
		})
	}
}

// mockSubscriber implements FileWatcherSubscriber for testing
type mockSubscriber struct {
	changes chan DeckFileChange
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{changes: make(chan DeckFileChange, 16)}
}

func (m *mockSubscriber) OnDeckFileChange(change DeckFileChange) {
	m.changes <- change
}

func TestFileWatcher_Subscribe(t *testing.T) {
	fw := &FileWatcher{
		subscribers: []FileWatcherSubscriber{},
	}

	fw.Subscribe(newMockSubscriber())
	fw.Subscribe(newMockSubscriber())

	if len(fw.subscribers) != 2 {
		t.Errorf("Expected 2 subscribers, got %d", len(fw.subscribers))
	}
}

func TestFileWatcher_Unsubscribe(t *testing.T) {
	sub1 := newMockSubscriber()
	sub2 := newMockSubscriber()

	fw := &FileWatcher{
		subscribers: []FileWatcherSubscriber{sub1, sub2},
	}

	fw.Unsubscribe(sub1)

	if len(fw.subscribers) != 1 {
		t.Errorf("Expected 1 subscriber, got %d", len(fw.subscribers))
	}
	if fw.subscribers[0] != sub2 {
		t.Error("Wrong subscriber remained")
	}
}

func TestFileWatcher_StoppedPreventsRestart(t *testing.T) {
	fw := &FileWatcher{
		stopped: true,
	}

	err := fw.Start()
	if err == nil {
		t.Error("Expected error when starting stopped watcher")
	}
}

func TestFileWatcher_NotifiesOnSave(t *testing.T) {
	dir, cleanup := testutil.TempDeckDir(t)
	defer cleanup()

	paths := testutil.NewTestPaths(dir)
	fw, err := NewFileWatcher(paths.DeckFilePath())
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	sub := newMockSubscriber()
	fw.Subscribe(sub)

	if err := fw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer fw.Stop()

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	if err := store.NewDeckStore(paths).Save(testutil.TestCollection()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case change := <-sub.changes:
		if change.Path != paths.DeckFilePath() {
			t.Errorf("Path = %q, want %q", change.Path, paths.DeckFilePath())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deck file change")
	}

	// One save is one debounced notification
	select {
	case extra := <-sub.changes:
		t.Errorf("unexpected second notification: %+v", extra)
	case <-time.After(3 * debounceDelay):
	}
}
