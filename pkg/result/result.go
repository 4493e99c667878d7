// Package result aggregates decodings reported by concurrent search
// workers into a single deduplicated, score-ordered list, and prints the
// running "current best" and final top-K windows.
package result

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lexdecode/lexdecode/internal/logger"
	"github.com/lexdecode/lexdecode/pkg/wordid"
)

// LiveWindow is how many entries are shown on every improvement.
const LiveWindow = 20

// FinalWindow is how many entries are shown once a task finishes.
const FinalWindow = 5000

// Word is one emitted word occurrence: its id, its score under the
// context it was scored in, the category penalty applied because it fell
// outside its natural namespace, and the "other word" penalty carried
// along from any backoff level where it was unknown.
type Word struct {
	ID       wordid.ID
	Score    int16
	Category int16
	Other    int16
}

// Solution is one reported decoding.
type Solution struct {
	Plaintext string
	Score     int64
	Key       string
	Words     []Word
}

// Aggregator is the thread-safe ordered result list for one task.
type Aggregator struct {
	mu        sync.Mutex
	seen      map[string]bool
	solutions []Solution
	start     time.Time
	bestLen   int
	logger    *log.Logger

	liveWindow  int
	finalWindow int
}

func defaultLogger() *log.Logger { return logger.New("result") }

// New returns an empty aggregator. logger is used for all progress and
// result output; if nil, a default logger is created.
func New(logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Aggregator{
		seen:        make(map[string]bool),
		start:       time.Now(),
		logger:      logger,
		liveWindow:  LiveWindow,
		finalWindow: FinalWindow,
	}
}

// TestBest records a candidate decoding. Duplicates (the same plaintext
// split into the same word sequence) are dropped silently. An accepted
// insertion that lands inside the live window reprints the current top
// window.
func (a *Aggregator) TestBest(plaintext string, score int64, key string, words []Word) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dedupKey := plaintext
	for _, w := range words {
		dedupKey += fmt.Sprintf("\x1f%d", w.ID)
	}
	if a.seen[dedupKey] {
		return
	}
	a.seen[dedupKey] = true
	better := 0
	for _, s := range a.solutions {
		if s.Score < score {
			better++
		}
	}
	a.solutions = append(a.solutions, Solution{Plaintext: plaintext, Score: score, Key: key, Words: words})
	sort.Slice(a.solutions, func(i, j int) bool { return a.solutions[i].Score < a.solutions[j].Score })

	if better < a.liveWindow {
		a.printLocked(a.liveWindow, false)
	}
}

// TestBetter reports a strict improvement in explored plaintext length;
// it never affects correctness, only progress visibility.
func (a *Aggregator) TestBetter(clearLen int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if clearLen <= a.bestLen {
		return
	}
	a.bestLen = clearLen
	a.logger.Debugf("reached plaintext length %d at %s", clearLen, time.Since(a.start).Round(time.Millisecond))
}

// PrintFinal prints (and returns) the final top-FinalWindow solutions.
func (a *Aggregator) PrintFinal() []Solution {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.printLocked(a.finalWindow, true)
	n := len(a.solutions)
	if n > a.finalWindow {
		n = a.finalWindow
	}
	out := make([]Solution, n)
	copy(out, a.solutions[:n])
	return out
}

// Solutions returns every distinct decoding recorded so far, best first.
func (a *Aggregator) Solutions() []Solution {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Solution, len(a.solutions))
	copy(out, a.solutions)
	return out
}

func (a *Aggregator) printLocked(window int, final bool) {
	n := len(a.solutions)
	if n > window {
		n = window
	}
	elapsed := time.Since(a.start).Round(time.Millisecond)
	label := "current"
	if final {
		label = "final"
	}
	a.logger.Infof("%s top-%d at %s (%d total)", label, n, elapsed, len(a.solutions))
	for i := 0; i < n; i++ {
		s := a.solutions[i]
		fmt.Printf("%6d  %-40s  %s\n", s.Score, s.Plaintext, s.Key)
	}
}
