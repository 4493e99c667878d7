// Package cipher implements the five cipher-constraint state machines the
// search engine walks in lockstep with the word scorer. Every variant
// shares one contract: push a character, test whatever needs a whole-word
// or whole-key view, pop it back off. No two matcher instances ever share
// state — each worker owns its own value copy.
package cipher

// Matcher is the uniform contract every cipher variant satisfies.
type Matcher interface {
	// Push attempts to commit ch as the plaintext character at position
	// len(clearSoFar) given the full ciphertext. It reports whether ch is
	// consistent with everything already committed.
	Push(clearSoFar []byte, cipherText []byte, ch byte) bool

	// Pop undoes the most recent Push of ch, where clearSoFarWithoutCh is
	// the plaintext prefix with ch already removed.
	Pop(clearSoFarWithoutCh []byte, cipherText []byte, ch byte)

	// Test is invoked immediately after a successful Push, before the
	// search recurses further. Most variants have nothing extra to check
	// and simply call next(); Playfair uses it to attempt an expensive
	// key-square reconstruction once enough plaintext is committed. Test
	// returns whatever next returns, or false if the variant itself
	// rejects the state without calling next.
	Test(clear []byte, cipherText []byte, next func() bool) bool

	// Key renders whatever key material the matcher has committed, for
	// display alongside a reported plaintext. May be empty.
	Key() string

	// Clone returns an independent copy, so a worker can hand off a
	// snapshot without the original's future pushes/pops affecting it.
	Clone() Matcher
}

// New constructs the matcher named by kind ("simple", "bigram",
// "pelling", "chaotic", "playfair"); for "pelling", pellingCount is the
// number of substitution tables. It returns an error for any other
// name, mirroring the reference implementation's fatal "unknown cipher
// type" behavior rather than silently defaulting.
func New(kind string, pellingCount int) (Matcher, error) {
	switch kind {
	case "simple":
		return NewSimple(), nil
	case "bigram":
		return NewBigram(), nil
	case "pelling":
		return NewPelling(pellingCount), nil
	case "chaotic":
		return NewChaotic(), nil
	case "playfair":
		return NewPlayfair(), nil
	default:
		return nil, &UnknownCipherError{Kind: kind}
	}
}

// UnknownCipherError is returned by New for an unrecognized cipher name.
type UnknownCipherError struct{ Kind string }

func (e *UnknownCipherError) Error() string {
	return "cipher: unknown cipher type " + e.Kind
}
