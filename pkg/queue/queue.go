// Package queue enumerates the fixed-depth plaintext prefixes that seed
// each parallel search and hands them out to a worker pool.
package queue

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lexdecode/lexdecode/internal/logger"
)

// alphabetOrder is the heuristic letter order (roughly by expected English
// word-initial frequency) prefixes are enumerated in, so the most
// promising branches of the search space are explored first.
const alphabetOrder = "taioswcbphfmdrelngyukvqxz"

// Queue is a mutex-protected, alphabet-ordered enumeration of every
// depth-letter prefix, popped one at a time by worker goroutines.
type Queue struct {
	mu     sync.Mutex
	items  []string
	pos    int
	logger *log.Logger
}

func defaultLogger() *log.Logger { return logger.New("queue") }

// New builds a queue of every depth-letter prefix over alphabetOrder, in
// enumeration order (depth 2 over a 25-letter alphabet yields 625 items).
func New(depth int, logger *log.Logger) *Queue {
	if depth < 0 {
		depth = 0
	}
	if logger == nil {
		logger = defaultLogger()
	}
	q := &Queue{logger: logger}
	q.add(depth, "")
	return q
}

func (q *Queue) add(n int, prefix string) {
	if n == 0 {
		q.items = append(q.items, prefix)
		return
	}
	for i := 0; i < len(alphabetOrder); i++ {
		q.add(n-1, prefix+string(alphabetOrder[i]))
	}
}

// Pop returns the next prefix, or ok=false once the queue is drained.
func (q *Queue) Pop() (prefix string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pos >= len(q.items) {
		return "", false
	}
	prefix = q.items[q.pos]
	q.pos++
	if q.pos%64 == 0 || q.pos == len(q.items) {
		q.logger.Debugf("queue progress: %d/%d prefixes dispatched", q.pos, len(q.items))
	}
	return prefix, true
}

// Len returns the total number of prefixes in the queue.
func (q *Queue) Len() int { return len(q.items) }
