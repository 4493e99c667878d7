// Package prefixtree implements the compact character-keyed trie that
// backs both the per-context common-word continuation dictionary and the
// admissibility pruning bound used by the search engine.
//
// A node carries a word id (0 means "not a terminal"), a symbol, and its
// children. During ingestion a node accumulates a hit count; once ingestion
// finishes, CalcScores reinterprets those counts into a signed score and a
// subtree-minimum bound. The two phases never overlap in time, so this is
// modeled as two explicit fields rather than a runtime tagged union — the
// tree is immutable once CalcScores has run.
package prefixtree

import (
	"math"
	"sort"

	"github.com/lexdecode/lexdecode/pkg/wordid"
)

// MaxWordID is the largest id a 20-bit field can hold.
const MaxWordID = 1<<20 - 1

// MaxChildren is the largest fan-out a 5-bit child-count field can hold.
// The input alphabet (26 letters plus a handful of punctuation sentinels)
// never approaches this, so it is enforced as an invariant, not worked
// around.
const MaxChildren = 31

// InfScore stands in for "this node is not a word", the packed
// implementation's INT16_MAX.
const InfScore = math.MaxInt16

// otherWordHits is the numerator used to score an unseen word in a given
// context: half a hit, so it is always worse than anything actually seen
// but never literally impossible.
const otherWordHits = 0.5

// Node is one trie node.
type Node struct {
	Symbol   byte
	Word     wordid.ID
	Children []*Node

	Hits uint32 // valid only before CalcScores runs

	Score    int16 // valid only after CalcScores runs
	MinScore int16 // valid only after CalcScores runs
}

// New returns an empty root node. The root's own Symbol is unused.
func New() *Node {
	return &Node{Word: wordid.NONE}
}

func (n *Node) childAt(symbol byte) *Node {
	for _, c := range n.Children {
		if c.Symbol == symbol {
			return c
		}
	}
	return nil
}

// AddHits walks (creating nodes as needed) the path spelling word, then
// records id at the terminal and adds hits to its running count.
func (n *Node) AddHits(word string, id wordid.ID, hits uint32) {
	cur := n
	for i := 0; i < len(word); i++ {
		sym := word[i]
		child := cur.childAt(sym)
		if child == nil {
			if len(cur.Children) >= MaxChildren {
				panic("prefixtree: child fan-out exceeds 31")
			}
			child = &Node{Symbol: sym, Word: wordid.NONE}
			cur.Children = append(cur.Children, child)
		}
		cur = child
	}
	if id > MaxWordID {
		panic("prefixtree: word id exceeds 20-bit range")
	}
	cur.Word = id
	cur.Hits += hits
}

// Find descends the path spelling s and returns its terminal node, or nil.
func (n *Node) Find(s string) *Node {
	cur := n
	for i := 0; i < len(s); i++ {
		cur = cur.childAt(s[i])
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindSubTree returns the single child reached by ch, or nil.
func (n *Node) FindSubTree(ch byte) *Node {
	return n.childAt(ch)
}

// CalcScore computes the shared log2 rarity score used for both terminal
// prefix-tree nodes and n-gram category penalties: rarer (smaller hits
// relative to max) yields a larger (worse) score. hits == 0 is scored as
// half a hit, the "some unseen word occurred" floor.
func CalcScore(hits, max uint64) int16 {
	if max == 0 {
		max = 1
	}
	h := float64(hits)
	if hits == 0 {
		h = otherWordHits
	}
	raw := -math.Log2(h/float64(max)) * 100
	raw = math.Round(raw)
	// MaxInt16 is reserved for InfScore, the "not a word" sentinel; a real
	// terminal score must stay strictly below it.
	if raw >= math.MaxInt16 {
		return math.MaxInt16 - 1
	}
	if raw < math.MinInt16 {
		return math.MinInt16
	}
	return int16(raw)
}

// scoreStats accumulates calibration totals as CalcScores unwinds.
type scoreStats struct {
	hitsTimesScore int64
	hitsTimesDepth int64
}

// CalcScores scores every terminal against max, computes each node's
// subtree minimum bottom-up, and sorts children by symbol. It is called
// once, after ingestion, and must not be interleaved with AddHits.
func (n *Node) CalcScores(max uint64) {
	n.calcScores(0, max, &scoreStats{})
}

func (n *Node) calcScores(depth int, max uint64, stats *scoreStats) {
	if n.Word != wordid.NONE {
		n.Score = CalcScore(uint64(n.Hits), max)
		stats.hitsTimesScore += int64(n.Hits) * int64(n.Score)
		stats.hitsTimesDepth += int64(n.Hits) * int64(depth)
	} else {
		n.Score = InfScore
	}

	minScore := n.Score
	for _, c := range n.Children {
		c.calcScores(depth+1, max, stats)
		if c.MinScore < minScore {
			minScore = c.MinScore
		}
	}
	n.MinScore = minScore

	sort.Slice(n.Children, func(i, j int) bool {
		return n.Children[i].Symbol < n.Children[j].Symbol
	})
}

// MaxHits returns the largest single hit count among terminal descendants
// (inclusive of n itself).
func (n *Node) MaxHits() uint64 {
	max := uint64(0)
	if n.Word != wordid.NONE && uint64(n.Hits) > max {
		max = uint64(n.Hits)
	}
	for _, c := range n.Children {
		if m := c.MaxHits(); m > max {
			max = m
		}
	}
	return max
}

// TotalHits returns the sum of hit counts among terminal descendants
// (inclusive of n itself).
func (n *Node) TotalHits() uint64 {
	total := uint64(0)
	if n.Word != wordid.NONE {
		total += uint64(n.Hits)
	}
	for _, c := range n.Children {
		total += c.TotalHits()
	}
	return total
}

// AdjustScores is a dormant calibration hook, ported for completeness
// against the reference implementation but never invoked by the ingestion
// pipeline: it would rescale every score by a fixed correction factor.
func (n *Node) AdjustScores(correction float64) {
	if n.Word != wordid.NONE && n.Score != InfScore {
		adjusted := float64(n.Score) * correction
		if adjusted >= math.MaxInt16 {
			n.Score = math.MaxInt16 - 1
		} else if adjusted < math.MinInt16 {
			n.Score = math.MinInt16
		} else {
			n.Score = int16(adjusted)
		}
	}
	for _, c := range n.Children {
		c.AdjustScores(correction)
	}
}
