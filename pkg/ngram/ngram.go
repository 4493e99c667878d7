// Package ngram implements the backoff n-gram context tree: a mapping from
// a sequence of preceding word ids (oldest first) to a node describing what
// is plausible next, both as ordinary words (via a prefix tree) and as the
// three pseudo-word categories PROPER, NUMERIC and COMMA.
package ngram

import (
	"github.com/lexdecode/lexdecode/pkg/prefixtree"
	"github.com/lexdecode/lexdecode/pkg/wordid"
)

// Tree is one context node. The root represents the empty (zero-word)
// context; each edge out of it is keyed by the category of one more word
// of context (wordid.Category), outermost/newest key nearest the leaf
// that Add is called on, so every proper or numeric word occurring as
// context collapses onto the same PROPER/NUMERIC branch instead of
// fragmenting into its own sparse one.
type Tree struct {
	Common *prefixtree.Node

	ProperHits  uint64
	NumericHits uint64
	CommaHits   uint64

	ProperScore  int16
	NumericScore int16
	CommaScore   int16
	OtherScore   int16

	Children map[wordid.ID]*Tree
}

// New returns an empty context node.
func New() *Tree {
	return &Tree{Children: make(map[wordid.ID]*Tree)}
}

func (t *Tree) child(id wordid.ID) *Tree {
	c, ok := t.Children[id]
	if !ok {
		c = New()
		t.Children[id] = c
	}
	return c
}

// Add records one occurrence of a word sequence: context holds the ids of
// the preceding words oldest-first, newestSurface/newestID/newestHits
// describe the word being predicted. tailOriginal, when true, routes a
// common-bucket word into the prefix tree under its own id rather than
// under Category(newestID) — used when populating the proper/numeric
// 1-/2-gram trees, where the "common" branch never fires since the newest
// word there is always proper or numeric.
func (t *Tree) Add(context []wordid.ID, newestSurface string, newestID wordid.ID, hits uint32, tailOriginal bool) {
	cur := t
	for _, id := range context {
		cur = cur.child(wordid.Category(id))
	}
	switch wordid.Category(newestID) {
	case wordid.PROPER:
		cur.ProperHits += uint64(hits)
	case wordid.NUMERIC:
		cur.NumericHits += uint64(hits)
	case wordid.COMMA:
		cur.CommaHits += uint64(hits)
	default:
		id := wordid.Category(newestID)
		if tailOriginal {
			id = newestID
		}
		if cur.Common == nil {
			cur.Common = prefixtree.New()
		}
		cur.Common.AddHits(newestSurface, id, hits)
	}
}

// Find descends the context chain (oldest first), categorizing each id the
// same way Add does, and returns the node for that exact context, or nil
// if any level is missing.
func (t *Tree) Find(context ...wordid.ID) *Tree {
	cur := t
	for _, id := range context {
		next, ok := cur.Children[wordid.Category(id)]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// CalcScores scores this node and every descendant. useMax selects between
// rewarding rarity relative to the single most frequent continuation
// (true) or relative to the total mass observed in this context (false).
func (t *Tree) CalcScores(useMax bool) {
	mh := t.commonMassHits(useMax)
	if t.ProperHits > mh {
		mh = t.ProperHits
	}
	if t.NumericHits > mh {
		mh = t.NumericHits
	}
	if t.CommaHits > mh {
		mh = t.CommaHits
	}
	if mh == 0 {
		mh = 1
	}

	if t.Common != nil {
		t.Common.CalcScores(mh)
	}
	t.ProperScore = prefixtree.CalcScore(t.ProperHits, mh)
	t.NumericScore = prefixtree.CalcScore(t.NumericHits, mh)
	t.CommaScore = prefixtree.CalcScore(t.CommaHits, mh)
	t.OtherScore = prefixtree.CalcScore(0, mh)

	for _, c := range t.Children {
		c.CalcScores(useMax)
	}
}

func (t *Tree) commonMassHits(useMax bool) uint64 {
	if t.Common == nil {
		return 0
	}
	if useMax {
		return t.Common.MaxHits()
	}
	return t.Common.TotalHits()
}
