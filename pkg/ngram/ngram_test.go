package ngram

import (
	"testing"

	"github.com/lexdecode/lexdecode/pkg/wordid"
)

func TestAddRoutesByCategory(t *testing.T) {
	tree := New()
	the := wordid.ID(10)
	paris := wordid.ID(500000)
	twelve := wordid.ID(900000)

	tree.Add(nil, "the", the, 5, false)
	tree.Add(nil, "paris", paris, 3, true)
	tree.Add(nil, "twelve", twelve, 2, true)
	tree.Add(nil, ",", wordid.COMMA, 1, false)

	if tree.ProperHits != 3 {
		t.Fatalf("ProperHits = %d, want 3", tree.ProperHits)
	}
	if tree.NumericHits != 2 {
		t.Fatalf("NumericHits = %d, want 2", tree.NumericHits)
	}
	if tree.CommaHits != 1 {
		t.Fatalf("CommaHits = %d, want 1", tree.CommaHits)
	}
	if tree.Common == nil || tree.Common.Find("the") == nil {
		t.Fatal("expected \"the\" reachable from the common trie")
	}
}

func TestFindDescendsContext(t *testing.T) {
	tree := New()
	a, b := wordid.ID(4), wordid.ID(5)
	tree.Add([]wordid.ID{a}, "word", b, 1, false)
	if tree.Find(a) == nil {
		t.Fatal("expected context [a] to exist after Add")
	}
	if tree.Find(b) != nil {
		t.Fatal("did not expect an unrelated context to exist")
	}
}

func TestCalcScoresPropagates(t *testing.T) {
	tree := New()
	child := wordid.ID(4)
	tree.Add(nil, "the", child, 100, false)
	tree.CalcScores(false)
	if tree.Common == nil {
		t.Fatal("expected a common trie")
	}
	term := tree.Common.Find("the")
	if term == nil {
		t.Fatal("expected \"the\" in the common trie")
	}
	if term.Score == 0 && term.Hits == 0 {
		t.Fatal("expected scoring to have run")
	}
}
