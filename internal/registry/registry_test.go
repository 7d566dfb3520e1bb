package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewDeduplicates(t *testing.T) {
	r := New("s300", " e80 ", "", "s300", "medium")
	want := []string{"s300", "e80", "medium"}
	if got := r.KnownTypes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("KnownTypes() = %v, want %v", got, want)
	}
}

func TestKnownTypesReturnsCopy(t *testing.T) {
	r := New("s300")
	ids := r.KnownTypes()
	ids[0] = "mutated"
	if r.KnownTypes()[0] != "s300" {
		t.Fatalf("registry was mutated through KnownTypes")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.yaml")
	if err := os.WriteFile(path, []byte("custom:\n  - s300\n  - e120x90\n  - 300x200_m_150x100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"s300", "e120x90", "300x200_m_150x100"}
	if got := r.KnownTypes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("KnownTypes() = %v, want %v", got, want)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("custom: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(empty); err == nil {
		t.Fatalf("expected error for empty registry")
	}
}

func TestMergeAndFraction(t *testing.T) {
	r := New("s300").WithFraction(func(byte) float64 { return 0.25 })
	merged := r.Merge(New("e80", "s300"))
	if got := merged.KnownTypes(); !reflect.DeepEqual(got, []string{"s300", "e80"}) {
		t.Fatalf("merged = %v", got)
	}
	if got := merged.CharToFraction('q'); got != 0.25 {
		t.Fatalf("CharToFraction = %v, want 0.25", got)
	}
}
