package host

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListProgramFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.bas", "a.bas", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("10 END\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.bas"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := ListProgramFiles(dir)
	if err != nil {
		t.Fatalf("ListProgramFiles: %v", err)
	}

	want := []string{"a.bas", "b.bas"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListProgramFilesMissingDir(t *testing.T) {
	if _, err := ListProgramFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
