package wordid

import "testing"

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	id1 := r.AddCommon("hello")
	id2 := r.AddCommon("hello")
	if id1 != id2 {
		t.Fatalf("adding the same word twice returned different ids: %d vs %d", id1, id2)
	}
	if got := r.WordByID(id1); got != "hello" {
		t.Fatalf("WordByID(%d) = %q, want hello", id1, got)
	}
}

func TestCategory(t *testing.T) {
	r := NewRegistry()
	common := r.AddCommon("the")
	proper := r.AddProper("paris")
	numeric := r.AddNumeric("twelve")

	if got := Category(common); got != common {
		t.Fatalf("common word category = %d, want itself (%d)", got, common)
	}
	if got := Category(proper); got != PROPER {
		t.Fatalf("proper word category = %d, want PROPER", got)
	}
	if got := Category(numeric); got != NUMERIC {
		t.Fatalf("numeric word category = %d, want NUMERIC", got)
	}
}

func TestDecoration(t *testing.T) {
	r := NewRegistry()
	proper := r.AddProper("dave")
	numeric := r.AddNumeric("nine")

	if got := r.WordByID(proper); got != "<dave>" {
		t.Fatalf("proper decoration = %q, want <dave>", got)
	}
	if got := r.WordByID(numeric); got != "{nine}" {
		t.Fatalf("numeric decoration = %q, want {nine}", got)
	}
	if got := r.WordByID(COMMA); got != "," {
		t.Fatalf("comma decoration = %q, want ,", got)
	}
}

func TestNamespacesDisjoint(t *testing.T) {
	r := NewRegistry()
	c := r.AddCommon("a")
	p := r.AddProper("a")
	n := r.AddNumeric("a")
	if c == p || c == n || p == n {
		t.Fatalf("same surface form across namespaces collided: common=%d proper=%d numeric=%d", c, p, n)
	}
}
