package result

import "testing"

func TestTestBestDeduplicates(t *testing.T) {
	a := New(nil)
	a.TestBest("hello", 100, "k1", nil)
	a.TestBest("hello", 50, "k2", nil)
	sols := a.Solutions()
	if len(sols) != 1 {
		t.Fatalf("got %d solutions, want 1 (duplicate plaintext)", len(sols))
	}
}

func TestSolutionsSortedByScore(t *testing.T) {
	a := New(nil)
	a.TestBest("bbb", 300, "", nil)
	a.TestBest("aaa", 100, "", nil)
	a.TestBest("ccc", 200, "", nil)
	sols := a.Solutions()
	for i := 1; i < len(sols); i++ {
		if sols[i-1].Score > sols[i].Score {
			t.Fatalf("solutions not sorted ascending by score: %+v", sols)
		}
	}
}

func TestPrintFinalRespectsWindow(t *testing.T) {
	a := New(nil)
	a.finalWindow = 2
	a.TestBest("a", 1, "", nil)
	a.TestBest("b", 2, "", nil)
	a.TestBest("c", 3, "", nil)
	out := a.PrintFinal()
	if len(out) != 2 {
		t.Fatalf("PrintFinal returned %d solutions, want 2", len(out))
	}
}
