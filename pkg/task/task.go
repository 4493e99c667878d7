// Package task drives one decoding run: it owns the work queue, the
// worker pool, and the result aggregator for a single ciphertext against
// a single cipher type, the way the reference driver's Task/run_task loop
// does.
package task

import (
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lexdecode/lexdecode/internal/logger"
	"github.com/lexdecode/lexdecode/pkg/cipher"
	"github.com/lexdecode/lexdecode/pkg/dictionary"
	"github.com/lexdecode/lexdecode/pkg/queue"
	"github.com/lexdecode/lexdecode/pkg/result"
	"github.com/lexdecode/lexdecode/pkg/search"
)

// Options is one fully-resolved task: the CLI/config option snapshot in
// effect when the ciphertext argument that finalizes it was seen.
type Options struct {
	CipherKind   string
	PellingCount int

	QueueDepth int
	Threads    int

	// FixedPrefix, when non-empty, is a known plaintext prefix supplied by
	// the caller (-c). It replaces the alphabet-enumerated work queue
	// entirely: there is nothing left to guess for those characters, so a
	// single search seeded with it runs instead of one per queue prefix.
	FixedPrefix string

	Search search.Config
}

// Task is one ciphertext to decode under a fixed Options snapshot.
type Task struct {
	CipherText string
	Opts       Options
}

func defaultLogger() *log.Logger { return logger.New("task") }

// Run builds the work queue and worker pool for t against dict, blocking
// until every prefix has been explored, then returns the final result
// window. Workers never touch dict's construction path and hold no lock
// on it; the only shared mutable state under contention is the queue's
// pop cursor and the aggregator's solution list.
func Run(dict *dictionary.Dictionary, t Task, logger *log.Logger) ([]result.Solution, error) {
	if logger == nil {
		logger = defaultLogger()
	}
	base, err := cipher.New(t.Opts.CipherKind, t.Opts.PellingCount)
	if err != nil {
		return nil, err
	}

	agg := result.New(logger)

	if t.Opts.FixedPrefix != "" {
		s := search.New(dict, t.CipherText, t.Opts.Search, agg)
		s.Run(t.Opts.FixedPrefix, base)
		return agg.PrintFinal(), nil
	}

	q := queue.New(t.Opts.QueueDepth, logger)

	workers := t.Opts.Threads
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(dict, t, base, q, agg, logger, id)
		}(i)
	}
	wg.Wait()

	return agg.PrintFinal(), nil
}

func worker(dict *dictionary.Dictionary, t Task, base cipher.Matcher, q *queue.Queue, agg *result.Aggregator, logger *log.Logger, id int) {
	s := search.New(dict, t.CipherText, t.Opts.Search, agg)
	for {
		prefix, ok := q.Pop()
		if !ok {
			return
		}
		if len(prefix) > len(t.CipherText) {
			continue
		}
		s.Run(prefix, base)
	}
}

// ParsePellingCount interprets the trailing digits of a "pelling<N>"
// cipher name, defaulting to 2 when absent, matching the reference
// implementation's Pelling(2) default.
func ParsePellingCount(kind string) (string, int) {
	const prefix = "pelling"
	if len(kind) < len(prefix) || kind[:len(prefix)] != prefix {
		return kind, 0
	}
	n, err := strconv.Atoi(kind[len(prefix):])
	if err != nil || n <= 0 {
		return "pelling", 2
	}
	return "pelling", n
}
