package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStatFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.stat")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildCommonWord(t *testing.T) {
	// "the" appears many times lowercase, never titlecase: it must land in
	// the common bucket and be reachable from the root context.
	path := writeStatFile(t, "+the 100\n-\n+the 100\n-\n+the 100\n-\n")
	d := New(Config{MaxWordsPerBucket: 1000})
	if err := d.Build([]string{path}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := d.Registry.LookupCommon("the"); !ok {
		t.Fatal("expected \"the\" to be classified as a common word")
	}
	node := d.Common.Find().Common
	if node == nil {
		t.Fatal("expected the root context to have a common-word trie")
	}
	if term := node.Find("the"); term == nil {
		t.Fatal("expected \"the\" reachable from the root common-word trie")
	}
}

func TestFinalizeVocabularyProtectedOverride(t *testing.T) {
	dir := t.TempDir()
	protectedPath := filepath.Join(dir, "protected.txt")
	if err := os.WriteFile(protectedPath, []byte("io\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// "Io" appears titlecase far more than lowercase, which alone would
	// classify it proper; the protected-word list overrides that.
	statPath := writeStatFile(t, "+Io 100\n-\n+Io 100\n-\n")

	d := New(Config{MaxWordsPerBucket: 1000})
	if err := d.LoadProtectedCommon(protectedPath); err != nil {
		t.Fatal(err)
	}
	if err := d.Build([]string{statPath}); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Registry.LookupCommon("io"); !ok {
		t.Fatal("protected common-word override was not honored")
	}
}

func TestTitleCaseAfterArticleCountsAsCommon(t *testing.T) {
	// "Apple" is titlecase every time it appears, but always right after
	// "the": that capitalization is sentence-initial, not nominal, so it
	// must still be classified common rather than proper.
	path := writeStatFile(t, "+the 1\n+Apple 5\n-\n-\n")
	d := New(Config{MaxWordsPerBucket: 1000})
	if err := d.Build([]string{path}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := d.Registry.LookupCommon("apple"); !ok {
		t.Fatal("expected \"apple\" to be classified common after stripping the article-context capitalization")
	}
}

func TestAssignTopNTruncates(t *testing.T) {
	// Single-letter words other than "a"/"i" are forced into the proper
	// bucket regardless of case statistics (see finalizeVocabulary).
	var lines string
	for _, w := range []string{"b", "c", "d", "e"} {
		lines += "+" + w + " 1\n-\n"
	}
	path := writeStatFile(t, lines)
	d := New(Config{MaxWordsPerBucket: 1})
	if err := d.Build([]string{path}); err != nil {
		t.Fatal(err)
	}
	if got := d.Registry.ProperCount(); got > 1 {
		t.Fatalf("bucket truncation not enforced: got %d proper words, want at most 1", got)
	}
}
