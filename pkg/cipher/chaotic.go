package cipher

// Chaotic is a monosubstitution cipher constrained to be a derangement: no
// plaintext character may encrypt to itself. Internally it tracks the
// permutation fragment committed so far as a doubly-linked pair of
// 128-entry reference tables, mirroring how the reference implementation
// keeps _next and _prev in lockstep so either direction can be queried in
// O(1) and undone exactly.
type Chaotic struct {
	next [128]reference
	prev [128]reference
}

// NewChaotic returns an empty derangement matcher.
func NewChaotic() *Chaotic { return &Chaotic{} }

func (c *Chaotic) canAdd(a, b byte) bool {
	if a == b {
		return false
	}
	if c.next[a].counter > 0 && c.next[a].symbol != b {
		return false
	}
	if c.prev[b].counter > 0 && c.prev[b].symbol != a {
		return false
	}
	return true
}

func (c *Chaotic) add(a, b byte) {
	c.next[a] = reference{b, c.next[a].counter + 1}
	c.prev[b] = reference{a, c.prev[b].counter + 1}
}

func (c *Chaotic) remove(a, b byte) {
	c.next[a].counter--
	if c.next[a].counter == 0 {
		c.next[a] = reference{}
	}
	c.prev[b].counter--
	if c.prev[b].counter == 0 {
		c.prev[b] = reference{}
	}
}

func (c *Chaotic) Push(clearSoFar []byte, cipherText []byte, ch byte) bool {
	cc := cipherText[len(clearSoFar)]
	if ch == cc {
		return false
	}
	if !c.canAdd(ch, cc) {
		return false
	}
	c.add(ch, cc)
	return true
}

func (c *Chaotic) Pop(clearSoFarWithoutCh []byte, cipherText []byte, ch byte) {
	cc := cipherText[len(clearSoFarWithoutCh)]
	c.remove(ch, cc)
}

func (c *Chaotic) Test(clear []byte, cipherText []byte, next func() bool) bool {
	return next()
}

func (c *Chaotic) Key() string {
	buf := make([]byte, 0, 26*3)
	for a := byte('a'); a <= 'z'; a++ {
		if c.next[a].counter > 0 {
			buf = append(buf, a, '=', c.next[a].symbol, ' ')
		}
	}
	return string(buf)
}

func (c *Chaotic) Clone() Matcher {
	cp := *c
	return &cp
}
