package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/testutil"
)

func TestFileGlobalStore_LoadMissingReturnsEmpty(t *testing.T) {
	dir, cleanup := testutil.TempDeckDir(t)
	defer cleanup()

	store := NewGlobalStoreAt(filepath.Join(dir, "config.toml"))
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetDailyGoal() != model.DefaultDailyGoal {
		t.Errorf("expected default goal, got %d", cfg.GetDailyGoal())
	}
}

func TestFileGlobalStore_SaveAndLoad(t *testing.T) {
	dir, cleanup := testutil.TempDeckDir(t)
	defer cleanup()

	store := NewGlobalStoreAt(filepath.Join(dir, "nested", "config.toml"))
	in := &model.GlobalConfig{DeckFile: "study.json", DailyGoal: 50, TimerSeconds: 600}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out.GetDeckFile() != "study.json" || out.GetDailyGoal() != 50 || out.GetTimerSeconds() != 600 {
		t.Errorf("unexpected config: %+v", out)
	}
	if out.ElysianSchema != "global/1" {
		t.Errorf("schema not stamped: %q", out.ElysianSchema)
	}
}

func TestFileGlobalStore_LoadRejectsMissingSchema(t *testing.T) {
	dir, cleanup := testutil.TempDeckDir(t)
	defer cleanup()

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("daily_goal = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewGlobalStoreAt(path).Load()
	if err == nil || !strings.Contains(err.Error(), "no schema version") {
		t.Errorf("expected missing schema error, got %v", err)
	}
}

func TestFileGlobalStore_EnsureExists(t *testing.T) {
	dir, cleanup := testutil.TempDeckDir(t)
	defer cleanup()

	path := filepath.Join(dir, "config.toml")
	store := NewGlobalStoreAt(path)
	if err := store.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
	if _, err := store.Load(); err != nil {
		t.Errorf("created config should load cleanly: %v", err)
	}
}
