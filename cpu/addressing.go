// addressing.go - ModR/M + SIB effective-address resolver
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

// operand describes a resolved ModR/M operand: either a register (kind
// register, index valid) or memory (kind indirect, addr valid).
type operandKind int

const (
	kindRegister operandKind = iota
	kindIndirect
)

type operand struct {
	kind operandKind
	reg  byte   // valid when kind == kindRegister
	addr uint32 // linear address, valid when kind == kindIndirect
}

// resolveModRM computes the r/m operand per spec §4.4, threading d.cur
// for every byte consumed (ModR/M already cached by the time this runs,
// SIB and displacement fetched here). segOverride, when set, replaces
// the table-implied default segment.
func (d *decoder) resolveModRM() operand {
	mod := d.modMod()
	rm := d.modRM()

	if mod == 3 {
		return operand{kind: kindRegister, reg: rm}
	}

	if d.addrSize == 4 {
		return operand{kind: kindIndirect, addr: d.effectiveAddress32(mod, rm)}
	}
	return operand{kind: kindIndirect, addr: d.effectiveAddress16(mod, rm)}
}

// effectiveAddress16 implements the 16-bit addressing table, grounded on
// the teacher's calcEffectiveAddress16 in cpu_x86.go — adapted to feed
// the resolved segment into CPU.TranslateData instead of discarding it.
func (d *decoder) effectiveAddress16(mod, rm byte) uint32 {
	c := d.cpu
	var base uint16
	seg := SegDS

	// Register indices in the teacher's regs32 layout: BX=3, BP=5, SI=6, DI=7.
	switch rm {
	case 0:
		base = c.GetReg16(3) + c.GetReg16(6) // BX+SI
	case 1:
		base = c.GetReg16(3) + c.GetReg16(7) // BX+DI
	case 2:
		base = c.GetReg16(5) + c.GetReg16(6) // BP+SI
		seg = SegSS
	case 3:
		base = c.GetReg16(5) + c.GetReg16(7) // BP+DI
		seg = SegSS
	case 4:
		base = c.GetReg16(6) // SI
	case 5:
		base = c.GetReg16(7) // DI
	case 6:
		if mod == 0 {
			base = d.fetch16()
		} else {
			base = c.GetReg16(5) // BP
			seg = SegSS
		}
	case 7:
		base = c.GetReg16(3) // BX
	}

	switch mod {
	case 1:
		disp := int8(d.fetch8())
		base = uint16(int16(base) + int16(disp))
	case 2:
		base += d.fetch16()
	}

	if d.segOverride >= 0 {
		seg = d.segOverride
	}
	return c.TranslateData(seg, uint32(base))
}

// effectiveAddress32 implements the 32-bit addressing + SIB table,
// grounded on the teacher's calcEffectiveAddress32.
func (d *decoder) effectiveAddress32(mod, rm byte) uint32 {
	c := d.cpu
	var addr uint32
	seg := SegDS

	if rm == 4 {
		sib := d.fetchSIB()
		scale := (sib >> 6) & 3
		index := (sib >> 3) & 7
		base := sib & 7

		if base == 5 && mod == 0 {
			addr = d.fetch32()
		} else {
			addr = c.GetReg32(base)
			if base == 4 || base == 5 {
				seg = SegSS
			}
		}
		if index != 4 {
			addr += c.GetReg32(index) << scale
		}
	} else if rm == 5 && mod == 0 {
		addr = d.fetch32()
	} else {
		addr = c.GetReg32(rm)
		if rm == 4 || rm == 5 {
			seg = SegSS
		}
	}

	switch mod {
	case 1:
		disp := int8(d.fetch8())
		addr = uint32(int32(addr) + int32(disp))
	case 2:
		addr += d.fetch32()
	}

	if d.segOverride >= 0 {
		seg = d.segOverride
	}
	return c.TranslateData(seg, addr)
}

// ---------------------------------------------------------------------
// Read/write through a resolved r/m operand, at each width.
// ---------------------------------------------------------------------

func (d *decoder) readRM8(op operand) byte {
	if op.kind == kindRegister {
		return d.cpu.GetReg8(op.reg)
	}
	return d.cpu.Mem.ReadByte(op.addr)
}

func (d *decoder) writeRM8(op operand, v byte) {
	if op.kind == kindRegister {
		d.cpu.SetReg8(op.reg, v)
		return
	}
	d.cpu.Mem.WriteByte(op.addr, v)
}

func (d *decoder) readRM16(op operand) uint16 {
	if op.kind == kindRegister {
		return d.cpu.GetReg16(op.reg)
	}
	return d.cpu.Mem.ReadWord(op.addr)
}

func (d *decoder) writeRM16(op operand, v uint16) {
	if op.kind == kindRegister {
		d.cpu.SetReg16(op.reg, v)
		return
	}
	d.cpu.Mem.WriteWord(op.addr, v)
}

func (d *decoder) readRM32(op operand) uint32 {
	if op.kind == kindRegister {
		return d.cpu.GetReg32(op.reg)
	}
	return d.cpu.Mem.ReadDword(op.addr)
}

func (d *decoder) writeRM32(op operand, v uint32) {
	if op.kind == kindRegister {
		d.cpu.SetReg32(op.reg, v)
		return
	}
	d.cpu.Mem.WriteDword(op.addr, v)
}

// readRM / writeRM dispatch on their size argument, used by the general ALU path
// where the opcode's size bit selects between 8-bit and operand-size.
func (d *decoder) readRM(op operand, size int) uint32 {
	switch size {
	case 1:
		return uint32(d.readRM8(op))
	case 2:
		return uint32(d.readRM16(op))
	default:
		return d.readRM32(op)
	}
}

func (d *decoder) writeRM(op operand, size int, v uint32) {
	switch size {
	case 1:
		d.writeRM8(op, byte(v))
	case 2:
		d.writeRM16(op, uint16(v))
	default:
		d.writeRM32(op, v)
	}
}
