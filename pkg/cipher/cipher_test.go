package cipher

import "testing"

func pushAll(t *testing.T, m Matcher, clear, cipherText string) bool {
	t.Helper()
	var soFar []byte
	for i := 0; i < len(clear); i++ {
		if !m.Push(soFar, []byte(cipherText), clear[i]) {
			return false
		}
		soFar = append(soFar, clear[i])
	}
	return true
}

func TestSimpleAcceptsConsistentSubstitution(t *testing.T) {
	m := NewSimple()
	if !pushAll(t, m, "hello", "ifmmp") {
		t.Fatal("expected consistent monosubstitution to be accepted")
	}
}

func TestSimpleRejectsInconsistentSubstitution(t *testing.T) {
	m := NewSimple()
	// 'l' and 'k' would both encrypt to 'm': two plaintext chars may not
	// share one ciphertext char.
	if pushAll(t, m, "helko", "ifmmp") {
		t.Fatal("expected inconsistent monosubstitution to be rejected")
	}
}

func TestSimplePushPopBalanced(t *testing.T) {
	m := NewSimple()
	cipherText := []byte("ifmmp")
	var clear []byte
	for i := 0; i < len(cipherText); i++ {
		ch := "hello"[i]
		if !m.Push(clear, cipherText, ch) {
			t.Fatalf("push %c failed", ch)
		}
		clear = append(clear, ch)
	}
	before := m.Key()
	for i := len(clear) - 1; i >= 0; i-- {
		ch := clear[i]
		clear = clear[:i]
		m.Pop(clear, cipherText, ch)
	}
	if m.Key() != "" {
		t.Fatalf("matcher not empty after full pop: %q", m.Key())
	}
	_ = before
}

func TestChaoticRejectsFixedPoint(t *testing.T) {
	m := NewChaotic()
	if pushAll(t, m, "aacd", "aacd") {
		t.Fatal("chaotic matcher must reject a fixed point")
	}
}

func TestChaoticAcceptsDerangementFragment(t *testing.T) {
	m := NewChaotic()
	// a<->b, c<->d: no position maps a plaintext letter to itself.
	if !pushAll(t, m, "abcd", "badc") {
		t.Fatal("chaotic matcher rejected a valid derangement fragment")
	}
}

func TestChaoticRejectsCollision(t *testing.T) {
	m := NewChaotic()
	// a->b then c->b is not injective.
	if pushAll(t, m, "ac", "bb") {
		t.Fatal("chaotic matcher accepted a non-injective mapping")
	}
}

func TestPellingUsesIndependentTables(t *testing.T) {
	m := NewPelling(2)
	// position 0,2,4 use table 0; position 1,3 use table 1: "abcde" -> "bcdef"
	// requires table0: a->b, c->d, e->f and table1: b->c, d->e, both consistent.
	if !pushAll(t, m, "abcde", "bcdef") {
		t.Fatal("expected Pelling(2) to resolve two independent substitution tables")
	}
}

func TestNewUnknownCipher(t *testing.T) {
	_, err := New("rot13", 0)
	if err == nil {
		t.Fatal("expected an error for an unknown cipher kind")
	}
	if _, ok := err.(*UnknownCipherError); !ok {
		t.Fatalf("expected *UnknownCipherError, got %T", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewSimple()
	pushAll(t, m, "he", "if")
	clone := m.Clone()
	pushAll(t, m, "llo", "mmp")
	if clone.Key() == m.Key() {
		t.Fatal("clone should not observe pushes made to the original after Clone")
	}
}
