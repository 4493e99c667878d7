package cipher

import "testing"

func TestMatrixEncryptSameRow(t *testing.T) {
	m := newMatrix()
	for i, l := range playfairAlphabet {
		m.place(i, byte(l))
	}
	// row 0 is "abcde"; a,b in same row shifts right.
	ca, cb := m.encrypt('a', 'b')
	if ca != 'b' || cb != 'c' {
		t.Fatalf("same-row encrypt(a,b) = %c%c, want bc", ca, cb)
	}
}

func TestMatrixEncryptSameColumn(t *testing.T) {
	m := newMatrix()
	for i, l := range playfairAlphabet {
		m.place(i, byte(l))
	}
	// column 0 is a,f,l,q,v (rows of 5): a(0), f(5), l(10), q(15), v(20).
	ca, cb := m.encrypt('a', 'f')
	if ca != 'f' || cb != 'l' {
		t.Fatalf("same-column encrypt(a,f) = %c%c, want fl", ca, cb)
	}
}

func TestReconstructMatrixConsistentWithUnits(t *testing.T) {
	m := newMatrix()
	for i, l := range playfairAlphabet {
		m.place(i, byte(l))
	}
	var units []charUnit
	pairs := [][2]byte{{'a', 'b'}, {'a', 'f'}, {'b', 'g'}}
	for _, p := range pairs {
		ca, cb := m.encrypt(p[0], p[1])
		units = append(units, charUnit{clear: p, cipher: [2]byte{ca, cb}})
	}
	rebuilt, ok := reconstructMatrix(units)
	if !ok {
		t.Fatal("expected reconstruction to succeed from a consistent unit set")
	}
	if !unitsConsistent(rebuilt, units) {
		t.Fatal("reconstructed matrix does not satisfy the units it was built from")
	}
}

func TestReconstructMatrixRejectsContradiction(t *testing.T) {
	units := []charUnit{
		{clear: [2]byte{'a', 'b'}, cipher: [2]byte{'x', 'y'}},
		{clear: [2]byte{'a', 'b'}, cipher: [2]byte{'z', 'w'}},
	}
	if _, ok := reconstructMatrix(units); ok {
		t.Fatal("expected reconstruction to fail on directly contradictory units")
	}
}

func TestPlayfairRejectsDoubledLetterPair(t *testing.T) {
	p := NewPlayfair()
	cipherText := []byte("xxxx")
	if !p.Push(nil, cipherText, 'l') {
		t.Fatal("first character of a digraph should always be provisionally accepted")
	}
	if p.Push([]byte{'l'}, cipherText, 'l') {
		t.Fatal("Playfair must reject a doubled clear letter within one digraph")
	}
}
