package utils

import (
	"strings"
	"unicode"
)

// IsASCIILetter reports whether r is an ASCII letter, the only alphabet the
// decoder's cipher matchers operate over.
func IsASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsWordCandidate reports whether s is eligible for ingestion as an ordinary
// dictionary word: at least one character, every character an ASCII letter.
// Words containing anything else (digits, punctuation, apostrophes) are
// skipped by first-pass ingestion; all-digit words are classified numeric
// before this check is made.
func IsWordCandidate(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !IsASCIILetter(r) {
			return false
		}
	}
	return true
}

// IsOnlyDigits reports whether s consists entirely of decimal digits
// (unicode.IsDigit, so not only ASCII 0-9).
func IsOnlyDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CleanProperName strips trailing punctuation and folds a raw proper-name
// corpus entry to lowercase, matching the cleaning applied before the name
// is offered to the word identifier registry.
func CleanProperName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".,;:!?\"'")
	return strings.ToLower(s)
}

// FoldPlayfairJ folds every 'j'/'J' in s to 'i', the classical Playfair
// convention of merging I and J into a single cell.
func FoldPlayfairJ(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 'j' {
			return 'i'
		}
		if r == 'J' {
			return 'I'
		}
		return r
	}, s)
}
