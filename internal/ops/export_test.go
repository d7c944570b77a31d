package ops

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/imprint/internal/settings"
)

func TestExportData(t *testing.T) {
	database := newTestDB(t)
	store := settings.NewStore(t.TempDir())

	keptID := mustAdd(t, database, AddInput{Content: "kept", Domain: "a.com"})
	deletedID := mustAdd(t, database, AddInput{Content: "deleted", Domain: "a.com"})
	if _, err := Delete(database, DeleteInput{ID: deletedID}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := CreateTag(database, CreateTagInput{Name: "work"}); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	cfg := settings.Default()
	cfg.Enabled = true
	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	backup, err := ExportData(database, store)
	if err != nil {
		t.Fatalf("ExportData() error = %v", err)
	}

	// Export includes soft-deleted records.
	if len(backup.Records) != 2 {
		t.Fatalf("Records = %d, want 2 (soft-deleted included)", len(backup.Records))
	}
	ids := map[string]bool{}
	for _, r := range backup.Records {
		ids[r.ID] = true
	}
	if !ids[keptID] || !ids[deletedID] {
		t.Errorf("missing records in export: %v", ids)
	}
	if len(backup.Tags) != 1 {
		t.Errorf("Tags = %d, want 1", len(backup.Tags))
	}
	if !backup.Settings.Enabled {
		t.Error("Settings not carried into export")
	}
}

func TestExportToFile_DefaultPath(t *testing.T) {
	database := newTestDB(t)
	baseDir := t.TempDir()
	store := settings.NewStore(baseDir)

	mustAdd(t, database, AddInput{Content: "note", Domain: "a.com"})

	out, err := ExportToFile(database, store, baseDir, "")
	if err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}
	if !strings.HasPrefix(out.Path, filepath.Join(baseDir, "exports")) {
		t.Errorf("Path = %q, want under exports dir", out.Path)
	}
	if out.Records != 1 {
		t.Errorf("Records = %d, want 1", out.Records)
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		t.Fatalf("export file is not valid JSON: %v", err)
	}
	if len(backup.Records) != 1 {
		t.Errorf("file Records = %d, want 1", len(backup.Records))
	}
}

func TestExportToFile_ExplicitPath(t *testing.T) {
	database := newTestDB(t)
	store := settings.NewStore(t.TempDir())

	path := filepath.Join(t.TempDir(), "backup.json")
	out, err := ExportToFile(database, store, t.TempDir(), path)
	if err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}
	if out.Path != path {
		t.Errorf("Path = %q, want %q", out.Path, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestClear(t *testing.T) {
	database := newTestDB(t)
	store := settings.NewStore(t.TempDir())

	mustAdd(t, database, AddInput{Content: "note", Domain: "a.com"})
	if _, err := CreateTag(database, CreateTagInput{Name: "work"}); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	cfg := settings.Default()
	cfg.Enabled = true
	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := Clear(database, store)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if !out.Cleared {
		t.Fatal("Cleared = false")
	}

	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Items) != 0 {
		t.Errorf("records remain: %d", len(list.Items))
	}
	tags, err := ListTags(database)
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	if len(tags.Items) != 0 {
		t.Errorf("tags remain: %d", len(tags.Items))
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Enabled {
		t.Error("settings not reset to defaults")
	}
}
