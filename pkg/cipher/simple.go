package cipher

// reference is one entry of a 128-character substitution table: the
// character on the other side of the mapping, plus a reference count so
// push/pop can share an entry across multiple positions that happen to
// use the same substitution.
type reference struct {
	symbol  byte
	counter int
}

// Simple is a monosubstitution cipher: one plaintext character always
// maps to the same ciphertext character and vice versa.
type Simple struct {
	toCipher [128]reference
	toClear  [128]reference
}

// NewSimple returns an empty monosubstitution matcher.
func NewSimple() *Simple { return &Simple{} }

func (s *Simple) Push(clearSoFar []byte, cipherText []byte, ch byte) bool {
	c := cipherText[len(clearSoFar)]
	if s.toCipher[ch].counter > 0 && s.toCipher[ch].symbol != c {
		return false
	}
	if s.toClear[c].counter > 0 && s.toClear[c].symbol != ch {
		return false
	}
	s.toCipher[ch] = reference{c, s.toCipher[ch].counter + 1}
	s.toClear[c] = reference{ch, s.toClear[c].counter + 1}
	return true
}

func (s *Simple) Pop(clearSoFarWithoutCh []byte, cipherText []byte, ch byte) {
	c := cipherText[len(clearSoFarWithoutCh)]
	s.toCipher[ch].counter--
	if s.toCipher[ch].counter == 0 {
		s.toCipher[ch] = reference{}
	}
	s.toClear[c].counter--
	if s.toClear[c].counter == 0 {
		s.toClear[c] = reference{}
	}
}

func (s *Simple) Test(clear []byte, cipherText []byte, next func() bool) bool {
	return next()
}

func (s *Simple) Key() string {
	buf := make([]byte, 0, 26*3)
	for c := byte('a'); c <= 'z'; c++ {
		if s.toClear[c].counter > 0 {
			buf = append(buf, c, '=', s.toClear[c].symbol, ' ')
		}
	}
	return string(buf)
}

func (s *Simple) Clone() Matcher {
	cp := *s
	return &cp
}

// Bigram substitutes pairs of plaintext characters for pairs of ciphertext
// characters; only a completed pair (an odd-offset push) is checked and
// committed. The first character of a pair is provisionally accepted and
// held pending.
type Bigram struct {
	toCipher map[[2]byte]bigramEntry
	toClear  map[[2]byte]bigramEntry

	pending    byte
	hasPending bool
}

type bigramEntry struct {
	pair  [2]byte
	count int
}

// NewBigram returns an empty bigram-substitution matcher.
func NewBigram() *Bigram {
	return &Bigram{
		toCipher: make(map[[2]byte]bigramEntry),
		toClear:  make(map[[2]byte]bigramEntry),
	}
}

func (b *Bigram) Push(clearSoFar []byte, cipherText []byte, ch byte) bool {
	pos := len(clearSoFar)
	if pos%2 == 0 {
		b.pending = ch
		b.hasPending = true
		return true
	}
	clearPair := [2]byte{b.pending, ch}
	cipherPair := [2]byte{cipherText[pos-1], cipherText[pos]}

	if e, ok := b.toCipher[clearPair]; ok && e.pair != cipherPair {
		return false
	}
	if e, ok := b.toClear[cipherPair]; ok && e.pair != clearPair {
		return false
	}
	ce := b.toCipher[clearPair]
	ce.pair, ce.count = cipherPair, ce.count+1
	b.toCipher[clearPair] = ce

	de := b.toClear[cipherPair]
	de.pair, de.count = clearPair, de.count+1
	b.toClear[cipherPair] = de

	b.hasPending = false
	return true
}

func (b *Bigram) Pop(clearSoFarWithoutCh []byte, cipherText []byte, ch byte) {
	pos := len(clearSoFarWithoutCh)
	if pos%2 == 0 {
		b.hasPending = false
		return
	}
	clearPair := [2]byte{clearSoFarWithoutCh[pos-1], ch}
	cipherPair := [2]byte{cipherText[pos-1], cipherText[pos]}

	if e, ok := b.toCipher[clearPair]; ok {
		e.count--
		if e.count == 0 {
			delete(b.toCipher, clearPair)
		} else {
			b.toCipher[clearPair] = e
		}
	}
	if e, ok := b.toClear[cipherPair]; ok {
		e.count--
		if e.count == 0 {
			delete(b.toClear, cipherPair)
		} else {
			b.toClear[cipherPair] = e
		}
	}
}

func (b *Bigram) Test(clear []byte, cipherText []byte, next func() bool) bool {
	return next()
}

func (b *Bigram) Key() string {
	buf := make([]byte, 0, len(b.toClear)*6)
	for cipherPair, e := range b.toClear {
		buf = append(buf, e.pair[0], e.pair[1], '=', cipherPair[0], cipherPair[1], ' ')
	}
	return string(buf)
}

func (b *Bigram) Clone() Matcher {
	cp := &Bigram{
		toCipher:   make(map[[2]byte]bigramEntry, len(b.toCipher)),
		toClear:    make(map[[2]byte]bigramEntry, len(b.toClear)),
		pending:    b.pending,
		hasPending: b.hasPending,
	}
	for k, v := range b.toCipher {
		cp.toCipher[k] = v
	}
	for k, v := range b.toClear {
		cp.toClear[k] = v
	}
	return cp
}

// Pelling is a periodic polyalphabetic cipher: k independent
// monosubstitution tables, selected by plaintext position modulo k.
type Pelling struct {
	tables []*Simple
	count  int
}

// NewPelling returns a matcher with count independent substitution
// tables. count must be at least 1.
func NewPelling(count int) *Pelling {
	if count < 1 {
		count = 1
	}
	tables := make([]*Simple, count)
	for i := range tables {
		tables[i] = NewSimple()
	}
	return &Pelling{tables: tables, count: count}
}

func (p *Pelling) tableFor(pos int) *Simple {
	return p.tables[pos%p.count]
}

func (p *Pelling) Push(clearSoFar []byte, cipherText []byte, ch byte) bool {
	return p.tableFor(len(clearSoFar)).Push(clearSoFar, cipherText, ch)
}

func (p *Pelling) Pop(clearSoFarWithoutCh []byte, cipherText []byte, ch byte) {
	p.tableFor(len(clearSoFarWithoutCh)).Pop(clearSoFarWithoutCh, cipherText, ch)
}

func (p *Pelling) Test(clear []byte, cipherText []byte, next func() bool) bool {
	return next()
}

func (p *Pelling) Key() string {
	buf := make([]byte, 0, 64)
	for i, t := range p.tables {
		if i > 0 {
			buf = append(buf, '|')
		}
		buf = append(buf, t.Key()...)
	}
	return string(buf)
}

func (p *Pelling) Clone() Matcher {
	cp := &Pelling{count: p.count, tables: make([]*Simple, len(p.tables))}
	for i, t := range p.tables {
		cp.tables[i] = t.Clone().(*Simple)
	}
	return cp
}
