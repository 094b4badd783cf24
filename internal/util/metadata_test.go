package util

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestGenerateMetadata(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tasks.db")
	if err := os.WriteFile(db, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	mtime := time.Date(2024, time.March, 3, 4, 5, 6, 0, time.UTC)
	if err := os.Chtimes(db, mtime, mtime); err != nil {
		t.Fatalf("Chtimes returned error: %v", err)
	}

	meta, err := GenerateMetadata(db, filepath.Join(dir, "missing.db"), dir)
	if err != nil {
		t.Fatalf("GenerateMetadata returned error: %v", err)
	}
	if len(meta) != 1 || meta["tasks.db"] != "2024-03-03T04:05:06Z" {
		t.Fatalf("unexpected metadata %v", meta)
	}
}

func TestSaveAndLoadMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db.sync.json")

	empty, err := LoadMetadata(path)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty metadata for a missing file, got %v (%v)", empty, err)
	}

	want := map[string]string{"tasks.db": "2024-03-03T04:05:06Z"}
	if err := SaveMetadata(path, want); err != nil {
		t.Fatalf("SaveMetadata returned error: %v", err)
	}
	got, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata returned error: %v", err)
	}
	if got["tasks.db"] != want["tasks.db"] || len(got) != 1 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDetectChanges(t *testing.T) {
	const (
		older = "2024-01-01T00:00:00Z"
		newer = "2024-01-02T00:00:00Z"
	)

	tests := []struct {
		name   string
		local  map[string]string
		remote map[string]string
		source string
		want   []string
	}{
		{"pull newer remote", map[string]string{"a": older}, map[string]string{"a": newer}, "s3", []string{"a"}},
		{"pull older remote", map[string]string{"a": newer}, map[string]string{"a": older}, "s3", nil},
		{"pull missing locally", map[string]string{}, map[string]string{"a": older}, "s3", []string{"a"}},
		{"push newer local", map[string]string{"a": newer}, map[string]string{"a": older}, "local", []string{"a"}},
		{"push missing remotely", map[string]string{"a": older}, map[string]string{}, "local", []string{"a"}},
		{"push equal", map[string]string{"a": older}, map[string]string{"a": older}, "local", nil},
		{"push skips remote only", map[string]string{}, map[string]string{"b": older}, "local", nil},
	}

	for _, tt := range tests {
		got := DetectChanges(tt.local, tt.remote, tt.source)
		sort.Strings(got)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			}
		}
	}
}
