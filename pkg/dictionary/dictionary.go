// Package dictionary builds the word identifier registry and the three
// n-gram trees (common, proper, numeric) from on-disk frequency corpora,
// the way dict.h's Dictionary constructor pipeline does: a first pass
// decides which bucket every observed word belongs to, then a second pass
// populates the n-gram trees using the now-final vocabulary.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lexdecode/lexdecode/internal/utils"
	"github.com/lexdecode/lexdecode/pkg/ngram"
	"github.com/lexdecode/lexdecode/pkg/wordid"
)

// commonBackoffDepth is how many words of context the common n-gram tree
// carries (a 5-gram: four words of context plus the predicted word).
const commonBackoffDepth = 4

// properBackoffDepth is how many words of context the proper/numeric
// n-gram trees carry (a 2-gram: one word of context).
const properBackoffDepth = 1

// Config tunes ingestion. It mirrors DictConfig in pkg/config.
type Config struct {
	MaxWordsPerBucket int
	UseMaxForScoring  bool
}

// Dictionary is the fully scored vocabulary and n-gram model handed to the
// search engine. It is immutable once Build returns and safe to share
// read-only across worker goroutines.
type Dictionary struct {
	Registry *wordid.Registry
	Common   *ngram.Tree
	Proper   *ngram.Tree
	Numeric  *ngram.Tree

	cfg Config

	protectedCommon map[string]bool
	properNames     map[string]bool
	numericWords    map[string]bool

	decided       map[string]byte // lowercase surface -> 'c'|'p'|'n'
	totals        map[string]uint64
	candidatesMap map[string]*bucketCandidate
}

// New returns an empty Dictionary ready for its Load* calls followed by
// Build.
func New(cfg Config) *Dictionary {
	if cfg.MaxWordsPerBucket <= 0 {
		cfg.MaxWordsPerBucket = 100000
	}
	return &Dictionary{
		Registry:        wordid.NewRegistry(),
		Common:          ngram.New(),
		Proper:          ngram.New(),
		Numeric:         ngram.New(),
		cfg:             cfg,
		protectedCommon: make(map[string]bool),
		properNames:     make(map[string]bool),
		numericWords:    make(map[string]bool),
		decided:         make(map[string]byte),
		totals:          make(map[string]uint64),
	}
}

// LoadProtectedCommon reads a newline-separated list of words that must
// always be classified as common regardless of case statistics.
func (d *Dictionary) LoadProtectedCommon(path string) error {
	return loadLineList(path, func(line string) {
		d.protectedCommon[strings.ToLower(strings.TrimSpace(line))] = true
	})
}

// LoadProperNames reads a tab-separated proper-name corpus: the field
// immediately after the first tab must be "N" for the entry to be
// accepted, matching the reference cleaning rule.
func (d *Dictionary) LoadProperNames(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dictionary: opening proper-name file %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[1] != "N" {
			continue
		}
		name := utils.CleanProperName(fields[0])
		if name == "" {
			continue
		}
		d.properNames[name] = true
		n++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("dictionary: reading proper-name file %s: %w", path, err)
	}
	log.Debugf("dictionary: loaded %d proper names from %s", n, path)
	return nil
}

// LoadNumericWords reads a newline-separated list of number-word surface
// forms ("one", "twelfth", ...).
func (d *Dictionary) LoadNumericWords(path string) error {
	return loadLineList(path, func(line string) {
		d.numericWords[strings.ToLower(strings.TrimSpace(line))] = true
	})
}

func loadLineList(path string, add func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dictionary: opening word list %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		add(line)
		n++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("dictionary: reading word list %s: %w", path, err)
	}
	log.Debugf("dictionary: loaded %d entries from %s", n, path)
	return nil
}

// Build runs the two-pass ingestion of every listed statistics file and
// scores the resulting trees. Word-list files (protected/proper/numeric)
// must already have been loaded via the Load* methods above.
func (d *Dictionary) Build(statPaths []string) error {
	for _, p := range statPaths {
		if err := readStatFile(p, d.observeVocabulary); err != nil {
			return err
		}
	}
	d.finalizeVocabulary()

	for _, p := range statPaths {
		if err := readStatFile(p, d.populateNgrams); err != nil {
			return err
		}
	}

	d.Common.CalcScores(d.cfg.UseMaxForScoring)
	d.Proper.CalcScores(d.cfg.UseMaxForScoring)
	d.Numeric.CalcScores(d.cfg.UseMaxForScoring)

	log.Infof("dictionary: built with %d common, %d proper, %d numeric words",
		d.Registry.CommonCount(), d.Registry.ProperCount(), d.Registry.NumericCount())
	return nil
}

// bucketCandidate accumulates the case-sensitive frequency split needed to
// decide common vs. proper for a single lowercase surface form.
type bucketCandidate struct {
	lowerHits uint64
	titleHits uint64
}

// observeVocabulary is the first-pass n-gram callback: it looks at the
// newest word of the tail and tallies raw frequency, split by whether the
// surface form was lowercase or titlecase, to later decide the bucket. A
// titlecase word immediately preceded by an article in a 2-gram is folded
// into the lowercase tally instead: it is capitalized because it opens a
// sentence, not because it is a proper noun.
func (d *Dictionary) observeVocabulary(tail []string, count uint64) error {
	surface := tail[len(tail)-1]
	lower := strings.ToLower(surface)
	if lower == "," {
		return nil
	}

	if d.numericWords[lower] || utils.IsOnlyDigits(lower) {
		d.totals[lower] += count
		d.decided[lower] = 'n'
		return nil
	}

	if !utils.IsWordCandidate(surface) {
		return nil
	}

	c := d.candidates()[lower]
	if c == nil {
		c = &bucketCandidate{}
		d.candidates()[lower] = c
	}
	afterArticle := len(tail) == 2 && isArticle(tail[0])
	if isTitleCase(surface) && !afterArticle {
		c.titleHits += count
	} else {
		c.lowerHits += count
	}
	d.totals[lower] += count
	return nil
}

// isArticle reports whether word is "the", "a", or "an", the context that
// strips the weight of an apparent capitalization from a following word.
func isArticle(word string) bool {
	switch strings.ToLower(word) {
	case "the", "a", "an":
		return true
	default:
		return false
	}
}

func (d *Dictionary) candidates() map[string]*bucketCandidate {
	if d.candidatesMap == nil {
		d.candidatesMap = make(map[string]*bucketCandidate)
	}
	return d.candidatesMap
}

func isTitleCase(s string) bool {
	if len(s) == 0 {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}

// finalizeVocabulary decides every observed word's bucket, then truncates
// each bucket to the top MaxWordsPerBucket entries by hit count and
// assigns final registry ids.
func (d *Dictionary) finalizeVocabulary() {
	for lower, c := range d.candidatesMap {
		if d.protectedCommon[lower] {
			d.decided[lower] = 'c'
			continue
		}
		if d.properNames[lower] {
			d.decided[lower] = 'p'
			continue
		}
		if len(lower) == 1 && lower != "a" && lower != "i" {
			d.decided[lower] = 'p'
			continue
		}
		// lowercase count x4 > titlecase count => common, else proper.
		if c.lowerHits*4 > c.titleHits {
			d.decided[lower] = 'c'
		} else {
			d.decided[lower] = 'p'
		}
	}

	d.assignTopN('c', d.Registry.AddCommon)
	d.assignTopN('p', d.Registry.AddProper)
	d.assignTopN('n', d.Registry.AddNumeric)
}

func (d *Dictionary) assignTopN(bucket byte, add func(string) wordid.ID) {
	type kv struct {
		word  string
		count uint64
	}
	var list []kv
	for w, b := range d.decided {
		if b == bucket {
			list = append(list, kv{w, d.totals[w]})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].count > list[j].count })
	if len(list) > d.cfg.MaxWordsPerBucket {
		for _, dropped := range list[d.cfg.MaxWordsPerBucket:] {
			delete(d.decided, dropped.word)
		}
		list = list[:d.cfg.MaxWordsPerBucket]
	}
	for _, kv := range list {
		add(kv.word)
	}
}

// resolveID returns the final registry id for a surface form observed
// during ingestion, or wordid.NONE if it was dropped (unknown word, or
// truncated out of its bucket during finalizeVocabulary).
func (d *Dictionary) resolveID(surface string) wordid.ID {
	lower := strings.ToLower(surface)
	if lower == "," {
		return wordid.COMMA
	}
	switch d.decided[lower] {
	case 'c':
		if id, ok := d.Registry.LookupCommon(lower); ok {
			return id
		}
	case 'p':
		if id, ok := d.Registry.LookupProper(lower); ok {
			return id
		}
	case 'n':
		if id, ok := d.Registry.LookupNumeric(lower); ok {
			return id
		}
	}
	return wordid.NONE
}

// populateNgrams is the second-pass n-gram callback: it resolves every
// word of the tail to its final id and feeds the common tree (up to a
// 5-gram) and, when the newest word is proper or numeric, the matching
// 1-/2-gram side tree keyed by the word's own id (tailOriginal = true).
func (d *Dictionary) populateNgrams(tail []string, count uint64) error {
	newestSurface := tail[len(tail)-1]
	newestID := d.resolveID(newestSurface)
	if newestID == wordid.NONE {
		return nil
	}

	context := tail[:len(tail)-1]
	ids := make([]wordid.ID, 0, len(context))
	for _, w := range context {
		id := d.resolveID(w)
		if id == wordid.NONE {
			return nil
		}
		ids = append(ids, id)
	}

	// Feed every suffix context up to the tree's backoff depth, not just
	// the longest one, so a shallower level always has at least as much
	// data as anything built on top of it and can serve as the fallback.
	// ids holds each context word's own id; Tree.Add categorizes each one
	// (wordid.Category) before descending, so a proper or numeric word
	// occurring as context collapses onto the shared PROPER/NUMERIC branch.
	maxCommon := len(ids)
	if maxCommon > commonBackoffDepth {
		maxCommon = commonBackoffDepth
	}
	for depth := 0; depth <= maxCommon; depth++ {
		suffix := ids[len(ids)-depth:]
		d.Common.Add(suffix, newestSurface, newestID, uint32(count), false)
	}

	switch wordid.Category(newestID) {
	case wordid.PROPER:
		maxProper := len(ids)
		if maxProper > properBackoffDepth {
			maxProper = properBackoffDepth
		}
		for depth := 0; depth <= maxProper; depth++ {
			suffix := ids[len(ids)-depth:]
			d.Proper.Add(suffix, newestSurface, newestID, uint32(count), true)
		}
	case wordid.NUMERIC:
		maxNumeric := len(ids)
		if maxNumeric > properBackoffDepth {
			maxNumeric = properBackoffDepth
		}
		for depth := 0; depth <= maxNumeric; depth++ {
			suffix := ids[len(ids)-depth:]
			d.Numeric.Add(suffix, newestSurface, newestID, uint32(count), true)
		}
	}
	return nil
}
