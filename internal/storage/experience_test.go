package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testExperienceJSON = `{
	"name": "Midnight Relic",
	"story": "A relic hunt across three markers.",
	"chapters": [
		{"id": "chapter_1", "title": "The Discovery", "marker": "marker1", "overlay": "t1", "overlay_text": "One", "content_group": ["c"]},
		{"id": "chapter_2", "title": "The Portal", "marker": "marker2", "overlay": "t2", "overlay_text": "Two", "content_group": ["p"]},
		{"id": "chapter_3", "title": "Revelation", "marker": "marker3", "overlay": "t3", "overlay_text": "Three", "content_group": ["o"]}
	],
	"elements": {
		"t1": {"primitive": "text"}, "t2": {"primitive": "text"}, "t3": {"primitive": "text"},
		"c": {"primitive": "box", "color": "#4CC3D9"},
		"p": {"primitive": "torus", "color": "#7B2D8E"},
		"o": {"primitive": "sphere", "color": "#FFC65D"}
	},
	"objects": {
		"portal": {"role": "portal", "element": "p"},
		"o": {"role": "revelation", "element": "o"}
	},
	"palette": ["#FFC65D", "#D95B43"]
}`

func writeExperienceFile(t *testing.T, dataDir, filename, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, "experiences")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create experiences dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write experience file: %v", err)
	}
}

func TestRedisStorage_GetExperience(t *testing.T) {
	dataDir := t.TempDir()
	writeExperienceFile(t, dataDir, "midnight_relic.json", testExperienceJSON)
	store, _ := setupTestStorage(t, dataDir)

	e, err := store.GetExperience(context.Background(), "midnight_relic.json")
	if err != nil {
		t.Fatalf("Failed to get experience: %v", err)
	}
	if e.Name != "Midnight Relic" {
		t.Errorf("Expected name 'Midnight Relic', got %q", e.Name)
	}
	if e.FileName != "midnight_relic.json" {
		t.Errorf("Expected filename set from path, got %q", e.FileName)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Expected loaded experience valid, got %v", err)
	}
}

func TestRedisStorage_GetExperienceNotFound(t *testing.T) {
	store, _ := setupTestStorage(t, t.TempDir())

	if _, err := store.GetExperience(context.Background(), "missing.json"); err == nil {
		t.Error("Expected error for missing experience")
	}
}

func TestRedisStorage_ListExperiences(t *testing.T) {
	dataDir := t.TempDir()
	writeExperienceFile(t, dataDir, "midnight_relic.json", testExperienceJSON)
	writeExperienceFile(t, dataDir, "broken.json", "{not json")
	store, _ := setupTestStorage(t, dataDir)

	list, err := store.ListExperiences(context.Background())
	if err != nil {
		t.Fatalf("Failed to list experiences: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 experience (broken file skipped), got %d", len(list))
	}
	if list["Midnight Relic"] != "midnight_relic.json" {
		t.Errorf("Expected filename mapping, got %v", list)
	}
}

func TestRedisStorage_ListMarkerSets(t *testing.T) {
	dataDir := t.TempDir()
	markersDir := filepath.Join(dataDir, "markers")
	if err := os.MkdirAll(markersDir, 0o755); err != nil {
		t.Fatalf("Failed to create markers dir: %v", err)
	}
	for _, name := range []string{"marker1.iset", "marker1.fset", "marker1.fset3"} {
		if err := os.WriteFile(filepath.Join(markersDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write marker file: %v", err)
		}
	}
	store, _ := setupTestStorage(t, dataDir)

	sets, err := store.ListMarkerSets(context.Background())
	if err != nil {
		t.Fatalf("Failed to list marker sets: %v", err)
	}
	if len(sets) != 1 || sets[0].ID != "marker1" || !sets[0].Complete() {
		t.Errorf("Expected one complete marker1 set, got %v", sets)
	}
}
