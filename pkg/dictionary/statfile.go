package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ngramEvent is fired once for every word freshly pushed onto the running
// tail while reading a statistics file. tail is the reader's own running
// slice (not a copy, and reused by later lines), oldest word first, newest
// (just-pushed) word last; count is the frequency recorded on that line.
type ngramEvent func(tail []string, count uint64) error

// readStatFile streams a stat file, maintaining the running n-gram tail
// described by the '+'/'='/'-' tags:
//
//	+word count   push word onto the tail, firing an event for the n-gram
//	              that now ends in word, then leave it on the tail
//	=word count   same as '+', but pop word back off immediately after
//	-             pop the most recent word off the tail without firing
//
// The tail must be empty again by end of file; a non-empty tail at EOF is
// a corrupt-file error, matching the "tail empty at EOF" invariant.
func readStatFile(path string, onEvent ngramEvent) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dictionary: opening stat file %s: %w", path, err)
	}
	defer f.Close()

	var tail []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		tag := line[0]
		switch tag {
		case '+', '=':
			rest := strings.TrimSpace(line[1:])
			sp := strings.LastIndexByte(rest, ' ')
			if sp < 0 {
				return fmt.Errorf("dictionary: %s:%d: malformed stat line %q", path, lineNo, line)
			}
			word := rest[:sp]
			countStr := strings.TrimSpace(rest[sp+1:])
			count, err := strconv.ParseUint(countStr, 10, 64)
			if err != nil {
				return fmt.Errorf("dictionary: %s:%d: bad count %q: %w", path, lineNo, countStr, err)
			}
			tail = append(tail, word)
			if err := onEvent(tail, count); err != nil {
				return err
			}
			if tag == '=' {
				tail = tail[:len(tail)-1]
			}
		case '-':
			if len(tail) == 0 {
				return fmt.Errorf("dictionary: %s:%d: pop on empty tail", path, lineNo)
			}
			tail = tail[:len(tail)-1]
		default:
			return fmt.Errorf("dictionary: %s:%d: unknown tag %q", path, lineNo, string(tag))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("dictionary: reading stat file %s: %w", path, err)
	}
	if len(tail) != 0 {
		return fmt.Errorf("dictionary: %s: tail not empty at EOF (%d unclosed entries)", path, len(tail))
	}
	return nil
}
