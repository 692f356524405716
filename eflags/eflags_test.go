package eflags

import "testing"

func TestNewHasReservedBit(t *testing.T) {
	f := New()
	if f.Raw() != rev1 {
		t.Errorf("New() = 0x%X, want 0x%X", f.Raw(), rev1)
	}
}

func TestSetCannotClearReservedBit(t *testing.T) {
	f := New()
	f = f.Set(0xFFFFFFFF, false) // try to clear every bit, bit 1 included
	if !f.Get(rev1) {
		t.Errorf("Set cleared reserved bit 1: 0x%X", f.Raw())
	}
	f = FromRaw(0) // simulate a hostile POPFD restoring an all-zero word
	if !f.Get(rev1) {
		t.Errorf("reserved bit 1 was cleared: 0x%X", f.Raw())
	}
}

func TestIndividualFlagRoundTrip(t *testing.T) {
	f := New()
	f = f.SetCF(true).SetZF(true).SetOF(true)
	if !f.CF() || !f.ZF() || !f.OF() {
		t.Errorf("expected CF/ZF/OF set, got 0x%X", f.Raw())
	}
	f = f.SetCF(false)
	if f.CF() {
		t.Errorf("expected CF cleared, got 0x%X", f.Raw())
	}
	if !f.ZF() || !f.OF() {
		t.Errorf("clearing CF should not disturb ZF/OF: 0x%X", f.Raw())
	}
}

func TestParityMatchesKnownValues(t *testing.T) {
	cases := []struct {
		v    byte
		want bool
	}{
		{0x00, true},  // zero ones -> even
		{0x01, false}, // one one -> odd
		{0x03, true},  // two ones -> even
		{0xFF, true},  // eight ones -> even
		{0x07, false}, // three ones -> odd
	}
	for _, c := range cases {
		if got := Parity(c.v); got != c.want {
			t.Errorf("Parity(0x%02X) = %v, want %v", c.v, got, c.want)
		}
	}
}

// TestParityForAllBytes checks spec property 3 exhaustively: for every
// r in 0..255, PF equals even parity of r, computed here by an
// independent bit-counting reference rather than Parity's own XOR-fold.
func TestParityForAllBytes(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		ones := 0
		for b := v; b != 0; b >>= 1 {
			ones += b & 1
		}
		want := ones%2 == 0
		if got := Parity(byte(v)); got != want {
			t.Errorf("Parity(0x%02X) = %v, want %v (popcount=%d)", v, got, want, ones)
		}
	}
}
