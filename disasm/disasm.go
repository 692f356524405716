// disasm.go - textual disassembler for the implemented opcode subset
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

// Package disasm renders one instruction at a CPU's current code
// position as a short mnemonic string. It is a read-only projection:
// every byte it consumes comes from the CPU's public read accessors, at
// a linear address translated once through TranslateCode, and it never
// advances EIP or otherwise mutates state.
// Grounded on the teacher's debug_disasm_x86.go (x86Disasm, its
// byte/word/dword readers, and its ModR/M-to-text renderer), scoped down
// to the opcode surface this module's decoder actually implements.
package disasm

import (
	"fmt"
	"strings"

	"github.com/zotley/ia32core/cpu"
)

var reg32 = [8]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI"}
var reg16 = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}
var reg8 = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}
var segRegs = [6]string{"ES", "CS", "SS", "DS", "FS", "GS"}
var cond = [16]string{
	"O", "NO", "B", "AE", "E", "NE", "BE", "A",
	"S", "NS", "P", "NP", "L", "GE", "LE", "G",
}

// reader walks bytes starting at a translated linear address, the same
// way the teacher's x86Disasm walks a host-supplied readMem callback.
type reader struct {
	c    *cpu.CPU
	addr uint32 // next linear address to read
	n    uint32 // bytes consumed so far
}

func (r *reader) u8() byte {
	v := r.c.ReadByte(r.addr + r.n)
	r.n++
	return v
}

func (r *reader) u16() uint16 {
	lo := r.u8()
	hi := r.u8()
	return uint16(lo) | uint16(hi)<<8
}

func (r *reader) u32() uint32 {
	lo := r.u16()
	hi := r.u16()
	return uint32(lo) | uint32(hi)<<16
}

// modrm renders an r/m operand as text, the way the teacher's
// decodeModRM does, using the 32-bit mod/rm/SIB table only: 16-bit
// addressing forms are rendered as if they were 32-bit.
func (r *reader) modrm(wide bool) (regField byte, text string) {
	b := r.u8()
	mod := (b >> 6) & 3
	rm := b & 7
	regField = (b >> 3) & 7

	if mod == 3 {
		if wide {
			return regField, reg32[rm]
		}
		return regField, reg8[rm]
	}

	var base string
	if rm == 4 {
		sib := r.u8()
		sibBase := sib & 7
		sibIdx := (sib >> 3) & 7
		sibScale := (sib >> 6) & 3
		if mod == 0 && sibBase == 5 {
			dw := r.u32()
			if sibIdx == 4 {
				return regField, fmt.Sprintf("[0x%08X]", dw)
			}
			return regField, fmt.Sprintf("[%s*%d+0x%08X]", reg32[sibIdx], 1<<sibScale, dw)
		}
		base = reg32[sibBase]
		if sibIdx != 4 {
			base = fmt.Sprintf("%s+%s*%d", base, reg32[sibIdx], 1<<sibScale)
		}
	} else if mod == 0 && rm == 5 {
		dw := r.u32()
		return regField, fmt.Sprintf("[0x%08X]", dw)
	} else {
		base = reg32[rm]
	}

	switch mod {
	case 1:
		disp := int8(r.u8())
		return regField, fmt.Sprintf("[%s%+d]", base, disp)
	case 2:
		disp := int32(r.u32())
		return regField, fmt.Sprintf("[%s%+d]", base, disp)
	default:
		return regField, fmt.Sprintf("[%s]", base)
	}
}

// DisassembleAt decodes exactly one instruction starting at the CPU's
// current mode/segment translation of eip and returns its mnemonic text
// plus the number of bytes it occupies. An opcode this module's decoder
// does not implement renders as "(bad)" rather than erroring — a
// disassembler is diagnostic, not authoritative, per spec's note that
// only a contract (not exact formatting) is required of this
// projection. Prefix bytes are not decoded: each renders as "(bad)" on
// its own, and word/dword operands are always rendered and read at
// 32-bit width, whatever operand size the CPU would use.
func DisassembleAt(c *cpu.CPU, eip uint32) (text string, length uint32) {
	addr := c.TranslateCode(eip)
	r := &reader{c: c, addr: addr}

	opcode := r.u8()
	switch opcode {
	case 0x90:
		text = "NOP"
	case 0xF4:
		text = "HLT"
	case 0xC3:
		text = "RET"
	case 0xCC:
		text = "INT3"
	case 0xCF:
		text = "IRET"
	case 0x9C:
		text = "PUSHFD"
	case 0x9D:
		text = "POPFD"
	case 0xFA:
		text = "CLI"
	case 0xFB:
		text = "STI"
	case 0xFC:
		text = "CLD"
	case 0xFD:
		text = "STD"
	case 0x04:
		text = fmt.Sprintf("ADD AL, 0x%02X", r.u8())
	case 0x2C:
		text = fmt.Sprintf("SUB AL, 0x%02X", r.u8())
	case 0x2D:
		text = fmt.Sprintf("SUB EAX, 0x%08X", r.u32())
	case 0xE8:
		text = fmt.Sprintf("CALL rel32 0x%08X", r.u32())
	case 0xE9:
		text = fmt.Sprintf("JMP rel32 0x%08X", r.u32())
	case 0xEB:
		text = fmt.Sprintf("JMP rel8 %+d", int8(r.u8()))
	case 0xEA:
		off := r.u32()
		sel := r.u16()
		text = fmt.Sprintf("JMP FAR %04X:%08X", sel, off)
	case 0xA4:
		text = "MOVSB"
	case 0xA5:
		text = "MOVSD"
	case 0xAA:
		text = "STOSB"
	case 0xAB:
		text = "STOSD"
	case 0xA0:
		text = fmt.Sprintf("MOV AL, [0x%08X]", r.u32())
	case 0xA1:
		text = fmt.Sprintf("MOV EAX, [0x%08X]", r.u32())
	case 0x8E:
		regField, rm := r.modrm(true)
		text = fmt.Sprintf("MOV %s, %s", segRegs[regField&7], rm)
	case 0x86:
		regField, rm := r.modrm(false)
		text = fmt.Sprintf("XCHG %s, %s", rm, reg8[regField])
	case 0x87:
		regField, rm := r.modrm(true)
		text = fmt.Sprintf("XCHG %s, %s", rm, reg32[regField])
	case 0xC0:
		regField, rm := r.modrm(false)
		text = fmt.Sprintf("%s %s, 0x%02X", shiftName(regField), rm, r.u8())
	case 0xC1:
		regField, rm := r.modrm(true)
		text = fmt.Sprintf("%s %s, 0x%02X", shiftName(regField), rm, r.u8())
	case 0xE0:
		text = fmt.Sprintf("LOOPNE %+d", int8(r.u8()))
	case 0xE1:
		text = fmt.Sprintf("LOOPE %+d", int8(r.u8()))
	case 0xE2:
		text = fmt.Sprintf("LOOP %+d", int8(r.u8()))
	case 0xE4:
		text = fmt.Sprintf("IN AL, 0x%02X", r.u8())
	case 0xE5:
		text = fmt.Sprintf("IN EAX, 0x%02X", r.u8())
	case 0xE6:
		text = fmt.Sprintf("OUT 0x%02X, AL", r.u8())
	case 0xE7:
		text = fmt.Sprintf("OUT 0x%02X, EAX", r.u8())
	case 0xEC:
		text = "IN AL, DX"
	case 0xED:
		text = "IN EAX, DX"
	case 0xEE:
		text = "OUT DX, AL"
	case 0xEF:
		text = "OUT DX, EAX"
	case 0xFF:
		regField, rm := r.modrm(true)
		if regField == 4 {
			text = "JMP " + rm
		} else {
			text = "(bad FF)"
		}
	case 0x0F:
		text = disasmTwoByte(r)
	default:
		switch {
		case opcode >= 0x40 && opcode <= 0x47:
			text = "INC " + reg32[opcode-0x40]
		case opcode >= 0x48 && opcode <= 0x4F:
			text = "DEC " + reg32[opcode-0x48]
		case opcode >= 0x50 && opcode <= 0x57:
			text = "PUSH " + reg32[opcode-0x50]
		case opcode >= 0x58 && opcode <= 0x5F:
			text = "POP " + reg32[opcode-0x58]
		case opcode >= 0x70 && opcode <= 0x7F:
			disp := int8(r.u8())
			text = fmt.Sprintf("J%s %+d", cond[opcode-0x70], disp)
		case opcode >= 0x91 && opcode <= 0x97:
			text = "XCHG " + reg32[opcode-0x90] + ", EAX"
		case opcode >= 0xB0 && opcode <= 0xB7:
			text = fmt.Sprintf("MOV %s, 0x%02X", reg8[opcode-0xB0], r.u8())
		case opcode >= 0xB8 && opcode <= 0xBF:
			text = fmt.Sprintf("MOV %s, 0x%08X", reg32[opcode-0xB8], r.u32())
		case opcode < 0x40 && opcode&7 <= 3:
			text = disasmALURM(r, aluName(opcode>>3), opcode&7)
		case opcode == 0x80:
			text = disasmGrp1(r, false, false)
		case opcode == 0x81:
			text = disasmGrp1(r, true, false)
		case opcode == 0x83:
			text = disasmGrp1(r, true, true)
		default:
			text = "(bad)"
		}
	}

	return text, r.n
}

func aluName(row byte) string {
	names := [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}
	return names[row&7]
}

// shiftName maps a Grp2 ModR/M reg field to a mnemonic. Only SHL (100)
// and SHR (101) are implemented; every other value is undefined in this
// subset, matching grp2Shift.
func shiftName(regField byte) string {
	switch regField & 7 {
	case 4:
		return "SHL"
	case 5:
		return "SHR"
	default:
		return "(bad shift)"
	}
}

// disasmGrp1 renders the 80/81/83 immediate ALU group, ModR/M reg field
// selecting the sub-operation the same way grp1 does.
func disasmGrp1(r *reader, wide, signExtendImm8 bool) string {
	regField, rm := r.modrm(wide)
	name := aluName(regField)
	if !wide {
		return fmt.Sprintf("%s %s, 0x%02X", name, rm, r.u8())
	}
	if signExtendImm8 {
		return fmt.Sprintf("%s %s, 0x%02X", name, rm, r.u8())
	}
	return fmt.Sprintf("%s %s, 0x%08X", name, rm, r.u32())
}

func disasmALURM(r *reader, name string, sub byte) string {
	wide := sub == 1 || sub == 3
	regField, rm := r.modrm(wide)
	regName := reg32[regField]
	if !wide {
		regName = reg8[regField]
	}
	if sub == 0 || sub == 1 {
		return fmt.Sprintf("%s %s, %s", name, rm, regName)
	}
	return fmt.Sprintf("%s %s, %s", name, regName, rm)
}

func disasmTwoByte(r *reader) string {
	op := r.u8()
	switch op {
	case 0x00:
		_, rm := r.modrm(false)
		return "LLDT " + rm
	case 0x01:
		_, rm := r.modrm(true)
		return "LGDT/LIDT " + rm
	case 0x20:
		_, rm := r.modrm(true)
		return "MOV " + rm + ", CRn"
	case 0x22:
		_, rm := r.modrm(true)
		return "MOV CRn, " + rm
	case 0xB6:
		_, rm := r.modrm(false)
		return "MOVZX r32, " + rm
	case 0xB7:
		_, rm := r.modrm(true)
		return "MOVZX r32, " + rm
	case 0xBE:
		_, rm := r.modrm(false)
		return "MOVSX r32, " + rm
	case 0xBF:
		_, rm := r.modrm(true)
		return "MOVSX r32, " + rm
	default:
		if op >= 0x80 && op <= 0x8F {
			return "J" + cond[op-0x80] + " rel32"
		}
		return "(bad 0F)"
	}
}

// SegmentName returns the mnemonic name of segment register index seg.
func SegmentName(seg int) string {
	if seg < 0 || seg >= len(segRegs) {
		return "?"
	}
	return segRegs[seg]
}

// Line renders one disassembled instruction with its address and raw
// bytes, the way a debugger listing typically does.
func Line(c *cpu.CPU, eip uint32) string {
	text, length := DisassembleAt(c, eip)
	var raw strings.Builder
	addr := c.TranslateCode(eip)
	for i := uint32(0); i < length; i++ {
		fmt.Fprintf(&raw, "%02X ", c.ReadByte(addr+i))
	}
	return fmt.Sprintf("%08X: %-24s %s", eip, strings.TrimSpace(raw.String()), text)
}
