package prefixtree

import (
	"testing"

	"github.com/lexdecode/lexdecode/pkg/wordid"
)

func TestMinScoreIsSubtreeMinimum(t *testing.T) {
	n := New()
	n.AddHits("cat", 10, 100)
	n.AddHits("car", 11, 1)
	n.AddHits("cart", 12, 1)
	n.CalcScores(100)

	var walk func(*Node) int16
	walk = func(node *Node) int16 {
		min := node.Score
		for _, c := range node.Children {
			if m := walk(c); m < min {
				min = m
			}
		}
		if node.MinScore != min {
			t.Errorf("node %q: MinScore = %d, want %d", string(node.Symbol), node.MinScore, min)
		}
		return min
	}
	walk(n)
}

func TestNonTerminalScoresInf(t *testing.T) {
	n := New()
	n.AddHits("cat", 10, 5)
	n.CalcScores(5)
	c := n.Find("ca")
	if c == nil {
		t.Fatal("expected intermediate node for \"ca\"")
	}
	if c.Score != InfScore {
		t.Fatalf("non-terminal node score = %d, want InfScore", c.Score)
	}
}

func TestCalcScoreMonotone(t *testing.T) {
	rare := CalcScore(1, 1000)
	common := CalcScore(999, 1000)
	if rare <= common {
		t.Fatalf("rare hit scored %d, common hit scored %d; rare should score worse (larger)", rare, common)
	}
}

func TestChildFanoutPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on exceeding MaxChildren fan-out")
		}
	}()
	n := New()
	for i := 0; i < MaxChildren+1; i++ {
		n.AddHits(string(rune('a'+i)), wordid.ID(i+1), 1)
	}
}

func TestFindMissingPath(t *testing.T) {
	n := New()
	n.AddHits("dog", 1, 1)
	if n.Find("cat") != nil {
		t.Fatal("Find on an absent path should return nil")
	}
}
