// scenarios_test.go - end-to-end instruction-stream scenarios
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import (
	"testing"

	"github.com/zotley/ia32core/memmap"
)

// newTestCPU builds a 64KB ROM at the top of the 32-bit space (so the
// real-mode reset vector's CS:IP fold lands inside it at offset 0xFFF0)
// plus a small RAM span at address 0, and resets it to power-on state.
func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	mem := memmap.New(0x10000, 0x10000)
	return New(mem, NullPorts{})
}

func romOffset(c *CPU, offset uint32, data []byte) {
	c.Mem.LoadROMAt(offset, data)
}

// TestResetVectorFarJumpHalts exercises the reset vector: a far jump
// sitting at the conventional EIP=0xFFF0 reset address loads CS and
// transfers control to offset 0, where a HLT instruction sits.
func TestResetVectorFarJumpHalts(t *testing.T) {
	c := newTestCPU(t)
	// EA 00 00 00 00 08 00 = JMP FAR 0008:00000000
	romOffset(c, 0xFFF0, []byte{0xEA, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00})
	romOffset(c, 0x0000, []byte{0xF4}) // HLT

	out := c.Step()
	if out != Success {
		t.Fatalf("step 1: got %v, want Success", out)
	}
	if c.SegSelector(SegCS) != 0x0008 {
		t.Fatalf("CS selector = %#x, want 0x0008", c.SegSelector(SegCS))
	}
	if c.EIP != 0 {
		t.Fatalf("EIP = %#x, want 0", c.EIP)
	}

	out = c.Step()
	if out != Halted {
		t.Fatalf("step 2: got %v, want Halted", out)
	}
	if !c.Halted {
		t.Fatal("c.Halted not set after HLT")
	}
}

// TestAddAlImm8SetsFlags exercises 04 ib (ADD AL, imm8) with AL=0xFF and
// imm8=1, wrapping to zero and setting CF/ZF/PF while clearing SF/OF.
func TestAddAlImm8SetsFlags(t *testing.T) {
	c := newTestCPU(t)
	romOffset(c, 0xFFF0, []byte{0x04, 0x01})
	c.SetReg8(0, 0xFF) // AL

	out := c.Step()
	if out != Success {
		t.Fatalf("got %v, want Success", out)
	}
	if got := c.GetReg8(0); got != 0x00 {
		t.Fatalf("AL = %#x, want 0", got)
	}
	f := c.Eflags
	if !f.CF() || !f.ZF() || !f.PF() || f.SF() || f.OF() {
		t.Fatalf("flags CF=%v ZF=%v PF=%v SF=%v OF=%v, want CF,ZF,PF set and SF,OF clear",
			f.CF(), f.ZF(), f.PF(), f.SF(), f.OF())
	}
}

// TestSubEaxImm32 exercises 66 2D id (SUB EAX, imm32) — the 66 prefix is
// required in real mode, whose default operand size is 16 bits, to read
// a full 32-bit immediate and target the full EAX register.
func TestSubEaxImm32(t *testing.T) {
	c := newTestCPU(t)
	romOffset(c, 0xFFF0, []byte{0x66, 0x2D, 0x01, 0x00, 0x00, 0x00})
	c.SetReg32(0, 0) // EAX

	out := c.Step()
	if out != Success {
		t.Fatalf("got %v, want Success", out)
	}
	if got := c.GetReg32(0); got != 0xFFFFFFFF {
		t.Fatalf("EAX = %#x, want 0xFFFFFFFF", got)
	}
	f := c.Eflags
	if !f.CF() || f.ZF() || !f.SF() || f.OF() {
		t.Fatalf("flags CF=%v ZF=%v SF=%v OF=%v, want CF,SF set and ZF,OF clear",
			f.CF(), f.ZF(), f.SF(), f.OF())
	}
}

// TestRepMovsbCopiesCountBytes exercises F3 A4 (REP MOVSB): ECX=4, four
// bytes copied from DS:ESI to ES:EDI, both index registers advanced, ECX
// left at 0.
func TestRepMovsbCopiesCountBytes(t *testing.T) {
	c := newTestCPU(t)
	romOffset(c, 0xFFF0, []byte{0xF3, 0xA4})

	// RAM sits at address 0; put a 4-byte source pattern at 0x100 and
	// point ESI/EDI at non-overlapping spans.
	c.Mem.WriteDword(0x100, 0xAABBCCDD)
	c.SetReg32(6, 0x100) // ESI
	c.SetReg32(7, 0x200) // EDI
	c.SetReg32(1, 4)     // ECX

	out := c.Step()
	if out != Success {
		t.Fatalf("got %v, want Success", out)
	}
	if got := c.GetReg32(1); got != 0 {
		t.Fatalf("ECX = %d, want 0", got)
	}
	if got := c.GetReg32(6); got != 0x104 {
		t.Fatalf("ESI = %#x, want 0x104", got)
	}
	if got := c.GetReg32(7); got != 0x204 {
		t.Fatalf("EDI = %#x, want 0x204", got)
	}
	if got := c.Mem.ReadDword(0x200); got != 0xAABBCCDD {
		t.Fatalf("copied data = %#x, want 0xAABBCCDD", got)
	}
}

// TestLgdtThenFarJumpEntersProtectedMode exercises 0F 01 /2 (LGDT) loading
// a pseudo-descriptor from memory, followed by a far jump whose selector
// resolves through that GDT, with CR0.PE already set so the jump
// reconciles Mode to protected.
func TestLgdtThenFarJumpEntersProtectedMode(t *testing.T) {
	c := newTestCPU(t)

	// Pseudo-descriptor at RAM 0x300: limit=0x27, base=0x00001000.
	c.Mem.WriteWord(0x300, 0x0027)
	c.Mem.WriteDword(0x302, 0x00001000)

	// GDT entry 1 (selector 0x0008) at base 0x00001000: a flat 32-bit
	// code segment, base=0, limit=0xFFFFF, access byte with present+code,
	// flags nibble with the default-32 bit set (bit 2 of the flags
	// nibble, i.e. 0x4 per LoadSegmentDescriptor's flags&0x4 check).
	gdtEntry := []byte{
		0xFF, 0xFF, // limit low
		0x00, 0x00, 0x00, // base low (24 bits)
		0x9A,       // access: present, code, executable, readable
		0xCF,       // flags nibble 0xC (G=1,D=1) | limit high nibble 0xF
		0x00,       // base high
	}
	// Selector 0x0008 indexes GDT entry 1 (index = selector>>3), so the
	// entry lives 8 bytes past the table base, not at the base itself.
	for i, b := range gdtEntry {
		c.Mem.WriteByte(0x00001008+uint32(i), b)
	}

	// LGDT [0x300] via a direct disp32 ModR/M addressing mode: mod=00,
	// reg=010(LGDT), rm=101 (disp32 follows). A leading 67 prefix is
	// required since real mode's default address size is 16 bits, and
	// mod=00/rm=101 is the 32-bit table's direct-address encoding.
	romOffset(c, 0xFFF0, []byte{0x67, 0x0F, 0x01, 0x15, 0x00, 0x03, 0x00, 0x00})
	out := c.Step()
	if out != Success {
		t.Fatalf("LGDT step: got %v, want Success", out)
	}
	if c.GDTR.Base != 0x00001000 || c.GDTR.Limit != 0x27 {
		t.Fatalf("GDTR = %+v, want base=0x1000 limit=0x27", c.GDTR)
	}

	c.SetCR(0, c.GetCR(0)|1) // CR0.PE

	// EA 00 00 00 00 08 00 = JMP FAR 0008:00000000
	romOffset(c, 0x0000, []byte{0xEA, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00})
	c.EIP = 0x0000
	out = c.Step()
	if out != Success {
		t.Fatalf("far jump step: got %v, want Success", out)
	}
	if c.Mode != ModeProtected {
		t.Fatalf("Mode = %v, want protected", c.Mode)
	}
	desc := c.SegDesc(SegCS)
	if desc.Base != 0 || desc.Limit != 0xFFFFF || !desc.DefaultOpSize32 {
		t.Fatalf("CS shadow descriptor = %+v, want base=0 limit=0xFFFFF DefaultOpSize32=true", desc)
	}
}

// TestUndefinedOpcodeLeavesEipUnchanged exercises the #UD path: an opcode
// with no table entry and no general-ALU-group membership reports
// Undefined and leaves EIP at the offending byte. 0xF0 (LOCK) is not in
// this subset's prefix set and has no opcode-table entry either, so it
// falls straight through to the #UD case the decoder reports for any
// unsupported lead byte.
func TestUndefinedOpcodeLeavesEipUnchanged(t *testing.T) {
	c := newTestCPU(t)
	romOffset(c, 0xFFF0, []byte{0xF0})
	startEIP := c.EIP

	out := c.Step()
	if out != Undefined {
		t.Fatalf("got %v, want Undefined", out)
	}
	if c.EIP != startEIP {
		t.Fatalf("EIP = %#x, want unchanged %#x", c.EIP, startEIP)
	}
}
