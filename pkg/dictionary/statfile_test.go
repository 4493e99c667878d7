package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "stat.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadStatFilePushPop(t *testing.T) {
	path := writeTemp(t, "+the 10\n+quick 5\n-\n=fox 3\n-\n")
	var tails [][]string
	err := readStatFile(path, func(tail []string, count uint64) error {
		cp := append([]string(nil), tail...)
		tails = append(tails, cp)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"the"}, {"the", "quick"}, {"the", "fox"}}
	if len(tails) != len(want) {
		t.Fatalf("got %d events, want %d", len(tails), len(want))
	}
	for i := range want {
		if len(tails[i]) != len(want[i]) {
			t.Fatalf("event %d: got %v, want %v", i, tails[i], want[i])
		}
		for j := range want[i] {
			if tails[i][j] != want[i][j] {
				t.Fatalf("event %d: got %v, want %v", i, tails[i], want[i])
			}
		}
	}
}

func TestReadStatFileNonEmptyTailAtEOF(t *testing.T) {
	path := writeTemp(t, "+the 10\n")
	err := readStatFile(path, func(tail []string, count uint64) error { return nil })
	if err == nil {
		t.Fatal("expected an error for a non-empty tail at EOF")
	}
}

func TestReadStatFilePopOnEmptyTail(t *testing.T) {
	path := writeTemp(t, "-\n")
	err := readStatFile(path, func(tail []string, count uint64) error { return nil })
	if err == nil {
		t.Fatal("expected an error popping an empty tail")
	}
}

func TestReadStatFileUnknownTag(t *testing.T) {
	path := writeTemp(t, "*the 10\n")
	err := readStatFile(path, func(tail []string, count uint64) error { return nil })
	if err == nil {
		t.Fatal("expected an error for an unrecognized tag")
	}
}

func TestReadStatFileBadCount(t *testing.T) {
	path := writeTemp(t, "+the ten\n-\n")
	err := readStatFile(path, func(tail []string, count uint64) error { return nil })
	if err == nil {
		t.Fatal("expected an error for a non-numeric count")
	}
}
