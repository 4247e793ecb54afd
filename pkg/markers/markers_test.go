package markers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMarkerFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestScan_GroupsTriplets(t *testing.T) {
	dir := t.TempDir()
	writeMarkerFiles(t, dir,
		"marker1.iset", "marker1.fset", "marker1.fset3",
		"marker2.iset", "marker2.fset",
		"notes.txt",
	)

	sets, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("Expected 2 marker sets, got %d", len(sets))
	}

	m1, ok := Find(sets, "marker1")
	if !ok {
		t.Fatal("marker1 not found")
	}
	if !m1.Complete() {
		t.Errorf("Expected marker1 complete, missing %v", m1.Missing())
	}

	m2, ok := Find(sets, "marker2")
	if !ok {
		t.Fatal("marker2 not found")
	}
	if m2.Complete() {
		t.Error("Expected marker2 incomplete")
	}
	if missing := m2.Missing(); len(missing) != 1 || missing[0] != ".fset3" {
		t.Errorf("Expected missing [.fset3], got %v", missing)
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	sets, err := Scan(filepath.Join(t.TempDir(), "does_not_exist"))
	if err != nil {
		t.Fatalf("Expected no error for missing directory, got %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("Expected empty result, got %d sets", len(sets))
	}
}
