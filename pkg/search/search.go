// Package search implements the coupled depth-first walk over a cipher
// matcher and the weighted n-gram word model: the core of the decoder.
package search

import (
	"github.com/lexdecode/lexdecode/pkg/cipher"
	"github.com/lexdecode/lexdecode/pkg/dictionary"
	"github.com/lexdecode/lexdecode/pkg/ngram"
	"github.com/lexdecode/lexdecode/pkg/prefixtree"
	"github.com/lexdecode/lexdecode/pkg/result"
	"github.com/lexdecode/lexdecode/pkg/wordid"
)

// commonBackoffDepth and properBackoffDepth repeat pkg/dictionary's
// unexported constants of the same names; the two pairs are kept equal by
// hand so a context slice built here matches what the trees were actually
// populated with.
const (
	commonBackoffDepth = 4
	properBackoffDepth = 1
)

// Config carries every admissibility and search-mode tunable of the CLI.
type Config struct {
	LowScoreArea   int
	LowScoreLimit  float64
	HighScoreLimit float64
	OddMode        bool
	CommaAtStart   bool
	CommaInside    bool
	Filler         byte // 0 disables filler insertion
}

// scoreUnit mirrors WORD_SCORE_UNIT: scores are stored already multiplied
// by 100, so limits expressed as plain multipliers need the same scale.
const scoreUnit = 100

func admissible(cfg Config, clearLen int, current int64) bool {
	low := int64(cfg.LowScoreLimit*scoreUnit) * int64(cfg.LowScoreArea)
	if clearLen <= cfg.LowScoreArea {
		return current <= low
	}
	high := int64(cfg.HighScoreLimit*scoreUnit) * int64(clearLen-cfg.LowScoreArea)
	return current <= low+high
}

// slot is one level of the backoff array: the node in that context's
// prefix tree corresponding to the characters walked so far, or nil once
// that level's context has no matching continuation (collapsed).
type slot struct {
	node     *prefixtree.Node
	ctxOther int16
}

// Searcher runs one coupled DFS over a fixed dictionary and ciphertext.
// It is safe to share read-only across goroutines; all mutable state
// lives in the walker each Run call constructs.
type Searcher struct {
	dict       *dictionary.Dictionary
	cipherText []byte
	cfg        Config
	agg        *result.Aggregator
}

// New returns a Searcher over dict and cipherText.
func New(dict *dictionary.Dictionary, cipherText string, cfg Config, agg *result.Aggregator) *Searcher {
	return &Searcher{dict: dict, cipherText: []byte(cipherText), cfg: cfg, agg: agg}
}

// walker is the mutable DFS state for a single run. Backtracking is done
// by truncating clear/words back to a saved length after each recursive
// call returns, standard for a single-threaded DFS.
type walker struct {
	clear   []byte
	matcher cipher.Matcher
	history []wordid.ID
	words   []result.Word
	score   int64
}

// Run explores every admissible decoding consistent with fixedPrefix as
// the start of the plaintext, reporting each complete one to the
// aggregator. matcher is cloned so the caller's copy is left untouched.
func (s *Searcher) Run(fixedPrefix string, matcher cipher.Matcher) {
	m := matcher.Clone()
	w := &walker{matcher: m}

	start := 0
	if s.cfg.OddMode && len(fixedPrefix) > 0 {
		// odd_mode commits the very first plaintext character without
		// re-validating it against the matcher, letting a search seed
		// begin mid-digraph the way Playfair filler recovery needs.
		ch := fixedPrefix[0]
		w.clear = append(w.clear, ch)
		start = 1
	}
	for i := start; i < len(fixedPrefix); i++ {
		ch := fixedPrefix[i]
		if !m.Push(w.clear, s.cipherText, ch) {
			return
		}
		w.clear = append(w.clear, ch)
	}
	s.step(w)
}

// step is called at every word boundary: end of ciphertext only reports
// once the sequence ends on a COMMA, forcing an attempt at one the way
// the original forces a trailing comma regardless of -C once the
// ciphertext is exhausted; otherwise every dictionary is tried for the
// next word.
func (s *Searcher) step(w *walker) {
	if len(w.clear) >= len(s.cipherText) {
		if lastWordIsComma(w) {
			s.report(w)
			return
		}
		catCtx := s.categoryContext(w.history)
		s.tryComma(w, catCtx.CommaScore)
		return
	}
	s.agg.TestBetter(len(w.clear))

	catCtx := s.categoryContext(w.history)

	commonSlots := s.buildSlots(s.dict.Common, w.history, commonBackoffDepth)
	s.walkWord(w, commonSlots, wordid.NONE, 0)

	properSlots := s.buildSlots(s.dict.Proper, w.history, properBackoffDepth)
	s.walkWord(w, properSlots, wordid.PROPER, catCtx.ProperScore)

	numericSlots := s.buildSlots(s.dict.Numeric, w.history, properBackoffDepth)
	s.walkWord(w, numericSlots, wordid.NUMERIC, catCtx.NumericScore)

	if (len(w.history) == 0 && s.cfg.CommaAtStart) || (len(w.history) > 0 && s.cfg.CommaInside) {
		s.tryComma(w, catCtx.CommaScore)
	}
}

// buildSlots resolves, from deepest to shallowest, the backoff contexts
// available for history and returns each one's root prefix-tree node.
// The root (empty context) is always present, so the slice is never
// empty. history holds each word's own id; tree.Find categorizes every
// entry (wordid.Category) before descending, so a run of proper or
// numeric words as context is looked up the same way it was ingested.
func (s *Searcher) buildSlots(tree *ngram.Tree, history []wordid.ID, maxDepth int) []slot {
	avail := len(history)
	if avail > maxDepth {
		avail = maxDepth
	}
	out := make([]slot, 0, avail+1)
	for length := avail; length >= 0; length-- {
		ctx := lastN(history, length)
		node := tree.Find(ctx...)
		if node == nil {
			continue
		}
		common := node.Common
		if common == nil {
			common = prefixtree.New()
		}
		out = append(out, slot{node: common, ctxOther: node.OtherScore})
	}
	return out
}

// categoryContext returns the deepest available common-tree context node,
// whose Proper/Numeric/Comma scores are used as the penalty for emitting
// one of those pseudo-words in this context. As with buildSlots, history
// is categorized on lookup by Tree.Find, not kept raw.
func (s *Searcher) categoryContext(history []wordid.ID) *ngram.Tree {
	avail := len(history)
	if avail > commonBackoffDepth {
		avail = commonBackoffDepth
	}
	for length := avail; length >= 0; length-- {
		ctx := lastN(history, length)
		if node := s.dict.Common.Find(ctx...); node != nil {
			return node
		}
	}
	return s.dict.Common
}

func lastN(history []wordid.ID, n int) []wordid.ID {
	if n <= 0 {
		return nil
	}
	return history[len(history)-n:]
}

func deepestNode(slots []slot) *prefixtree.Node {
	for _, sl := range slots {
		if sl.node != nil {
			return sl.node
		}
	}
	return nil
}

func calcSetMinScore(slots []slot) int16 {
	if n := deepestNode(slots); n != nil {
		return n.MinScore
	}
	return prefixtree.InfScore
}

// findWordScore decides whether the character position slots has just
// reached is a real word at all, and if so, its score. Existence is
// decided by the broadest (root, zero-length-context) slot alone: every
// observation feeds the root context in addition to its own, so the root
// trie always holds the full vocabulary even when a deeper, more specific
// context only recorded this exact spelling as a non-terminal prefix of
// something else. Once existence is established, the score backs off from
// the deepest slot that actually terminates here toward the root,
// accumulating the largest "other word" penalty seen along levels that
// don't.
func findWordScore(slots []slot) (id wordid.ID, score int16, other int16) {
	root := slots[len(slots)-1]
	if root.node == nil || root.node.Word == wordid.NONE {
		return wordid.NONE, 0, 0
	}
	id = root.node.Word
	for _, sl := range slots {
		if sl.node != nil && sl.node.Word != wordid.NONE {
			return id, sl.node.Score, other
		}
		if sl.ctxOther > other {
			other = sl.ctxOther
		}
	}
	return id, root.node.Score, other
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// walkWord walks one candidate word character by character through slots
// (a backoff array already positioned at the word's root), pushing each
// candidate character through the matcher and pruning branches whose
// minimum achievable score can no longer fit the admissibility budget.
// catPenalty is added whenever a terminal from this dictionary is
// accepted; catID is passed down the walk but not read: the emitted id
// always comes from the terminal node.
func (s *Searcher) walkWord(w *walker, slots []slot, catID wordid.ID, catPenalty int16) {
	s.walkChars(w, slots, catID, catPenalty, 0, 0)
}

func (s *Searcher) walkChars(w *walker, slots []slot, catID wordid.ID, catPenalty int16, depth int, wordOther int64) {
	// The filler is a last resort for extending a word that has not yet
	// ended, mirroring the original's "try filler only when this is not
	// already a word" branch; once this position is a genuine word there
	// is nothing for a filler to repair.
	root := slots[len(slots)-1]
	isWord := depth > 0 && root.node != nil && root.node.Word != wordid.NONE

	pos := len(w.clear)
	if pos >= len(s.cipherText) {
		if !isWord {
			s.maybeFiller(w, slots, catID, catPenalty, depth, wordOther)
		}
		return
	}

	broad := slots[len(slots)-1].node
	for _, child := range broad.Children {
		ch := child.Symbol
		if !w.matcher.Push(w.clear, s.cipherText, ch) {
			continue
		}
		w.clear = append(w.clear, ch)

		newSlots, other := advanceSlots(slots, ch)
		newOther := wordOther
		if int64(other) > newOther {
			newOther = int64(other)
		}
		probe := int64(calcSetMinScore(newSlots))
		current := w.score + int64(catPenalty) + maxI64(newOther, probe)

		if !admissible(s.cfg, len(w.clear), current) {
			w.clear = w.clear[:len(w.clear)-1]
			w.matcher.Pop(w.clear, s.cipherText, ch)
			continue
		}

		w.matcher.Test(w.clear, s.cipherText, func() bool {
			s.afterChar(w, newSlots, catID, catPenalty, depth+1, newOther)
			return true
		})

		w.clear = w.clear[:len(w.clear)-1]
		w.matcher.Pop(w.clear, s.cipherText, ch)
	}

	if !isWord {
		s.maybeFiller(w, slots, catID, catPenalty, depth, wordOther)
	}
}

// afterChar checks whether the position just reached is a real word
// (ending the word here is one legal continuation) and, regardless, keeps
// extending the word with more characters (a longer word is another).
func (s *Searcher) afterChar(w *walker, slots []slot, catID wordid.ID, catPenalty int16, depth int, wordOther int64) {
	if depth > 0 {
		if id, score, other := findWordScore(slots); id != wordid.NONE {
			combinedOther := wordOther
			if int64(other) > combinedOther {
				combinedOther = int64(other)
			}
			s.emitWord(w, id, score, catPenalty, int16(combinedOther))
		}
	}
	s.walkChars(w, slots, catID, catPenalty, depth, wordOther)
}

// maybeFiller inserts the classical Playfair digraph-break filler at an
// odd mid-word position when no terminal has been found and filler mode
// is enabled: the filler letter itself, then a repetition of the
// plaintext character immediately preceding it, advancing the prefix
// tree through both. A lone filler byte is never a valid Playfair
// digraph half by itself, so if the repeated character cannot also be
// pushed the whole insertion is abandoned.
func (s *Searcher) maybeFiller(w *walker, slots []slot, catID wordid.ID, catPenalty int16, depth int, wordOther int64) {
	if s.cfg.Filler == 0 || depth%2 != 1 || len(w.clear) == 0 || len(w.clear) >= len(s.cipherText) {
		return
	}
	prev := w.clear[len(w.clear)-1]

	ch := s.cfg.Filler
	if !w.matcher.Push(w.clear, s.cipherText, ch) {
		return
	}
	w.clear = append(w.clear, ch)
	defer func() {
		w.clear = w.clear[:len(w.clear)-1]
		w.matcher.Pop(w.clear, s.cipherText, ch)
	}()

	fillerSlots, fillerOther := advanceSlots(slots, ch)
	other := wordOther
	if int64(fillerOther) > other {
		other = int64(fillerOther)
	}

	if len(w.clear) >= len(s.cipherText) || !w.matcher.Push(w.clear, s.cipherText, prev) {
		return
	}
	w.clear = append(w.clear, prev)
	defer func() {
		w.clear = w.clear[:len(w.clear)-1]
		w.matcher.Pop(w.clear, s.cipherText, prev)
	}()

	repeatSlots, repeatOther := advanceSlots(fillerSlots, prev)
	if int64(repeatOther) > other {
		other = int64(repeatOther)
	}
	probe := int64(calcSetMinScore(repeatSlots))
	current := w.score + int64(catPenalty) + maxI64(other, probe)
	if admissible(s.cfg, len(w.clear), current) {
		w.matcher.Test(w.clear, s.cipherText, func() bool {
			s.afterChar(w, repeatSlots, catID, catPenalty, depth+2, other)
			return true
		})
	}
}

// advanceSlots finds, in every slot, the child reached by ch. A slot with
// no such child collapses to missing, and its context's "other word"
// penalty is returned as the worst one seen among the collapses.
func advanceSlots(slots []slot, ch byte) ([]slot, int16) {
	out := make([]slot, len(slots))
	var worstOther int16
	for i, sl := range slots {
		if sl.node == nil {
			out[i] = sl
			continue
		}
		child := sl.node.FindSubTree(ch)
		if child == nil {
			out[i] = slot{node: nil, ctxOther: sl.ctxOther}
			if sl.ctxOther > worstOther {
				worstOther = sl.ctxOther
			}
			continue
		}
		out[i] = slot{node: child, ctxOther: sl.ctxOther}
	}
	return out, worstOther
}

// emitWord commits a completed word and continues the search at the next
// word boundary, restoring all mutated state on the way back out so
// sibling branches see the walker exactly as they left it.
func (s *Searcher) emitWord(w *walker, id wordid.ID, wordScore int16, catPenalty int16, other int16) {
	savedScore := w.score
	savedWordsLen := len(w.words)
	savedHistoryLen := len(w.history)

	w.words = append(w.words, result.Word{ID: id, Score: wordScore, Category: catPenalty, Other: other})
	w.score += int64(wordScore) + int64(catPenalty)
	w.history = append(w.history, id)
	if len(w.history) > commonBackoffDepth {
		w.history = w.history[len(w.history)-commonBackoffDepth:]
	}

	s.step(w)

	w.history = w.history[:savedHistoryLen]
	w.words = w.words[:savedWordsLen]
	w.score = savedScore
}

// tryComma treats a comma as a zero-width pseudo-word: a sentence break
// with no plaintext character of its own.
func (s *Searcher) tryComma(w *walker, commaPenalty int16) {
	s.emitWord(w, wordid.COMMA, 0, commaPenalty, 0)
}

// lastWordIsComma reports whether the most recently emitted word was the
// COMMA pseudo-word, the gate step uses to decide whether a completed
// plaintext is reportable.
func lastWordIsComma(w *walker) bool {
	if len(w.words) == 0 {
		return false
	}
	return w.words[len(w.words)-1].ID == wordid.COMMA
}

// report hands a completed plaintext to the aggregator once the entire
// ciphertext has been consumed and the word sequence ends on a COMMA;
// step enforces that gate before calling report.
func (s *Searcher) report(w *walker) {
	if len(w.words) == 0 {
		return
	}
	words := make([]result.Word, len(w.words))
	copy(words, w.words)
	s.agg.TestBest(string(w.clear), w.score, w.matcher.Key(), words)
}
