package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexdecode/lexdecode/pkg/cipher"
	"github.com/lexdecode/lexdecode/pkg/dictionary"
	"github.com/lexdecode/lexdecode/pkg/result"
)

func buildDict(t *testing.T, corpus string) *dictionary.Dictionary {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.stat")
	if err := os.WriteFile(path, []byte(corpus), 0o644); err != nil {
		t.Fatal(err)
	}
	d := dictionary.New(dictionary.Config{MaxWordsPerBucket: 1000})
	if err := d.Build([]string{path}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func defaultConfig() Config {
	return Config{LowScoreArea: 16, LowScoreLimit: 5, HighScoreLimit: 5}
}

func TestSimpleCipherFindsHello(t *testing.T) {
	d := buildDict(t, "+hello 100\n-\n+hello 100\n-\n+hello 100\n-\n")
	agg := result.New(nil)
	s := New(d, "ifmmp", defaultConfig(), agg)
	m := cipher.NewSimple()
	s.Run("", m)

	found := false
	for _, sol := range agg.Solutions() {
		if sol.Plaintext == "hello" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"hello\" among reported solutions, got %+v", agg.Solutions())
	}
}

func TestCommonWordFoundViaRootBackoff(t *testing.T) {
	// "cat" is only ever observed on its own (so it lands in the root,
	// zero-length common context); after "the", only "cats" was ever
	// observed, so the 1-gram context ["the"] has "cat"'s spelling only as
	// a non-terminal prefix of "cats". Word emission must still recognize
	// "cat" there by falling back to the root context rather than
	// rejecting on the deeper context's non-terminal node.
	d := buildDict(t, "+cat 100\n-\n+the 50\n+cats 50\n-\n-\n")
	agg := result.New(nil)
	s := New(d, "thecat", defaultConfig(), agg)
	m := cipher.NewSimple()
	s.Run("", m)

	found := false
	for _, sol := range agg.Solutions() {
		if sol.Plaintext == "thecat" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"thecat\" among reported solutions, got %+v", agg.Solutions())
	}
}

func TestSimpleCipherNoSpuriousMatches(t *testing.T) {
	// A corpus containing only an unrelated word must not decode "ifmmp"
	// into anything at all under a tight score budget.
	d := buildDict(t, "+xyz 100\n-\n")
	agg := result.New(nil)
	cfg := Config{LowScoreArea: 1, LowScoreLimit: 0.01, HighScoreLimit: 0.01}
	s := New(d, "ifmmp", cfg, agg)
	m := cipher.NewSimple()
	s.Run("", m)
	if len(agg.Solutions()) != 0 {
		t.Fatalf("expected no solutions under a tight budget with an unrelated corpus, got %+v", agg.Solutions())
	}
}
