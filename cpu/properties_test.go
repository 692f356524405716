// properties_test.go - invariants that must hold for any input, not
// just the handful of fixed scenarios above.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import (
	"testing"

	"github.com/zotley/ia32core/alu"
	"github.com/zotley/ia32core/eflags"
	"github.com/zotley/ia32core/memmap"
)

// TestRegisterAliasingInvariant checks that for every register index
// and a spread of 32-bit values, writing then reading back through every
// narrower alias observes exactly the bytes the spec's register model
// promises: GetReg8 ∈ {low byte, high byte of the paired 32-bit reg},
// GetReg16 is always the low 16 bits.
func TestRegisterAliasingInvariant(t *testing.T) {
	c := New(memmap.New(0x100, 0x100), NullPorts{})
	values := []uint32{0x00000000, 0xFFFFFFFF, 0x12345678, 0x0000FFFF, 0xFFFF0000, 0xA5A5A5A5}

	for idx := byte(0); idx < 8; idx++ {
		for _, v := range values {
			c.SetReg32(idx, v)
			if got := c.GetReg16(idx); got != uint16(v) {
				t.Fatalf("reg %d: GetReg16 = %#x after SetReg32(%#x), want %#x", idx, got, v, uint16(v))
			}
			if idx < 4 {
				if got := c.GetReg8(idx); got != byte(v) {
					t.Fatalf("reg %d: GetReg8 (low) = %#x after SetReg32(%#x), want %#x", idx, got, v, byte(v))
				}
				if got := c.GetReg8(idx + 4); got != byte(v>>8) {
					t.Fatalf("reg %d: GetReg8 (high, idx+4) = %#x after SetReg32(%#x), want %#x", idx, got, v, byte(v>>8))
				}
			}
		}
	}

	// SetReg16 must preserve the upper 16 bits of the paired register.
	c.SetReg32(0, 0xAABBCCDD)
	c.SetReg16(0, 0x1122)
	if got := c.GetReg32(0); got != 0xAABB1122 {
		t.Fatalf("SetReg16 clobbered upper half: EAX = %#x, want 0xAABB1122", got)
	}

	// SetReg8 on the high-byte alias must only touch that one byte.
	c.SetReg32(0, 0xAABBCCDD)
	c.SetReg8(4, 0x99) // AH
	if got := c.GetReg32(0); got != 0xAABB99DD {
		t.Fatalf("SetReg8(AH) touched other bytes: EAX = %#x, want 0xAABB99DD", got)
	}
}

// TestAluDeterministic checks that alu.Exec is a pure function of its
// inputs: calling it twice with identical arguments always produces
// identical output, for every op and a spread of operand/flag inputs.
func TestAluDeterministic(t *testing.T) {
	ops := []alu.Op{alu.ADD, alu.ADC, alu.SUB, alu.SBB, alu.AND, alu.OR, alu.XOR, alu.INC, alu.DEC, alu.NEG, alu.NOT}
	operands := []uint32{0, 1, 0x7F, 0x80, 0xFF, 0xFFFF, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF}
	sizes := []alu.Size{alu.Size8, alu.Size16, alu.Size32}

	for _, op := range ops {
		for _, size := range sizes {
			for _, a := range operands {
				for _, b := range operands {
					for _, cf := range []bool{false, true} {
						fin := eflags.New().SetCF(cf)
						r1, f1 := alu.Exec(op, a, b, size, fin)
						r2, f2 := alu.Exec(op, a, b, size, fin)
						if r1 != r2 || f1 != f2 {
							t.Fatalf("alu.Exec(%v, %#x, %#x, %v, CF=%v) not deterministic: (%#x,%#x) vs (%#x,%#x)",
								op, a, b, size, cf, r1, f1.Raw(), r2, f2.Raw())
						}
					}
				}
			}
		}
	}
}

// TestAluResultMaskedToSize checks every op's result never carries bits
// above the requested operand width.
func TestAluResultMaskedToSize(t *testing.T) {
	ops := []alu.Op{alu.ADD, alu.ADC, alu.SUB, alu.SBB, alu.AND, alu.OR, alu.XOR, alu.INC, alu.DEC, alu.NEG, alu.NOT}
	sizes := map[alu.Size]uint32{alu.Size8: 0xFF, alu.Size16: 0xFFFF, alu.Size32: 0xFFFFFFFF}

	for _, op := range ops {
		for size, mask := range sizes {
			r, _ := alu.Exec(op, 0xFFFFFFFF, 0xFFFFFFFF, size, eflags.New())
			if r&^mask != 0 {
				t.Fatalf("%v at size %v: result %#x has bits outside mask %#x", op, size, r, mask)
			}
		}
	}
}

// TestReservedEflagsBitNeverClears checks that no sequence of Set calls
// can clear the permanently-set reserved bit.
func TestReservedEflagsBitNeverClears(t *testing.T) {
	f := eflags.New()
	masks := []uint32{eflags.CF, eflags.PF, eflags.ZF, eflags.SF, eflags.OF, eflags.DF, eflags.IF, 0xFFFFFFFF}
	for _, m := range masks {
		f = f.Set(m, false)
		if f.Raw()&0x2 == 0 {
			t.Fatalf("reserved bit 1 cleared after Set(%#x, false): %#x", m, f.Raw())
		}
	}
}

// TestPrefixIdempotence checks that two operand-size override prefixes
// in a row fold to a single override (66 66 behaves exactly like one 66),
// as scanPrefixes implements.
func TestPrefixIdempotence(t *testing.T) {
	c := New(memmap.New(0x10000, 0x100), NullPorts{})
	c.Mem.LoadROMAt(0, []byte{0x66, 0x66, 0x40}) // INC EAX with two 66 prefixes
	c.EIP = 0
	c.SetReg32(0, 0xFFFF)

	out := c.Step()
	if out != Success {
		t.Fatalf("got %v, want Success", out)
	}
	// Two 66 prefixes act as one: this is a 32-bit INC EAX, so the carry
	// out of the low 16 bits reaches bit 16 (a 16-bit INC AX would give 0).
	if got := c.GetReg32(0); got != 0x10000 {
		t.Fatalf("EAX = %#x, want 0x10000 (32-bit INC with a folded 66 override)", got)
	}
	if c.EIP != 3 {
		t.Fatalf("EIP = %#x, want 3", c.EIP)
	}
}

// TestAddressing16CoversEveryRmMod exercises every mod/rm combination of
// the 16-bit addressing table via a MOV [mem], AL and confirms each
// resolves to a successfully-decoded instruction (no panics, no
// Undefined) across every non-register mod.
func TestAddressing16CoversEveryRmMod(t *testing.T) {
	for mod := byte(0); mod <= 2; mod++ {
		for rm := byte(0); rm <= 7; rm++ {
			c := New(memmap.New(0x10000, 0x100), NullPorts{})
			modrm := (mod << 6) | rm // reg field 0 = AL

			var instr []byte
			instr = append(instr, 0x88, modrm)
			switch {
			case mod == 0 && rm == 6:
				instr = append(instr, 0x00, 0x00) // disp16
			case mod == 1:
				instr = append(instr, 0x00) // disp8
			case mod == 2:
				instr = append(instr, 0x00, 0x00) // disp16
			}

			c.Mem.LoadROMAt(0, instr)
			c.EIP = 0
			out := c.Step()
			if out != Success {
				t.Fatalf("mod=%d rm=%d: got %v, want Success", mod, rm, out)
			}
		}
	}
}

// TestAddressing32CoversEveryRmMod does the same for the 32-bit table
// (forced via a 67 address-size prefix in real mode), using one fixed
// SIB byte for the rm=100 rows.
func TestAddressing32CoversEveryRmMod(t *testing.T) {
	for mod := byte(0); mod <= 2; mod++ {
		for rm := byte(0); rm <= 7; rm++ {
			c := New(memmap.New(0x10000, 0x10000), NullPorts{})
			modrm := (mod << 6) | rm

			instr := []byte{0x67, 0x88, modrm}
			if rm == 4 {
				instr = append(instr, 0x00) // SIB: scale0 index=EAX(000) base=EAX(000), a harmless SIB
			}
			switch {
			case mod == 0 && (rm == 5 || (rm == 4 && modrm == 0x04)):
				instr = append(instr, 0x00, 0x00, 0x00, 0x00) // disp32
			case mod == 1:
				instr = append(instr, 0x00)
			case mod == 2:
				instr = append(instr, 0x00, 0x00, 0x00, 0x00)
			}

			c.Mem.LoadROMAt(0, instr)
			c.EIP = 0
			out := c.Step()
			if out != Success {
				t.Fatalf("mod=%d rm=%d: got %v, want Success", mod, rm, out)
			}
		}
	}
}
