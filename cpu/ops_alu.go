// ops_alu.go - general ALU group (00-3D family), Grp1 immediate group
// (80-83), XCHG, MOV
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import "github.com/zotley/ia32core/alu"

var aluGroupOps = [8]alu.Op{alu.ADD, alu.OR, alu.ADC, alu.SBB, alu.AND, alu.SUB, alu.XOR, alu.CMP}

// generalALUDispatch implements spec §4.5 step 4: the classic 6-bit
// arithmetic/MOV/CMP/XCHG family plus the 80-83 immediate group, reached
// when the opcode isn't in the one-byte table. Grounded on the teacher's
// opADD_* family shape in cpu_x86_ops.go and the Grp1 dispatch in
// cpu_x86_grp.go, restructured around the pure alu.Exec function instead
// of the teacher's CPU-mutating setFlagsArith* helpers.
func generalALUDispatch(c *CPU, d *decoder, opcode byte) Outcome {
	switch {
	case opcode < 0x40 && opcode&7 <= 5:
		return aluGroupOp(c, d, opcode)
	case opcode == 0x80 || opcode == 0x81 || opcode == 0x83:
		return grp1(c, d, opcode)
	case opcode == 0x86 || opcode == 0x87:
		return xchg(c, d, opcode)
	case opcode == 0x88 || opcode == 0x89 || opcode == 0x8A || opcode == 0x8B:
		return movRMReg(c, d, opcode)
	}
	return Undefined
}

func aluGroupOp(c *CPU, d *decoder, opcode byte) Outcome {
	row := opcode >> 3
	sub := opcode & 7
	op := aluGroupOps[row]

	switch sub {
	case 0, 2: // Eb,Gb / Gb,Eb (8-bit)
		rm := d.resolveModRM()
		regIdx := d.modReg()
		a := d.readRM8(rm)
		b := c.GetReg8(regIdx)
		dest, src := a, b
		if sub == 2 {
			dest, src = c.GetReg8(regIdx), d.readRM8(rm)
		}
		r, f := alu.Exec(op, uint32(dest), uint32(src), alu.Size8, c.Eflags)
		c.Eflags = f
		if op != alu.CMP {
			if sub == 0 {
				d.writeRM8(rm, byte(r))
			} else {
				c.SetReg8(regIdx, byte(r))
			}
		}
	case 1, 3: // Ev,Gv / Gv,Ev
		rm := d.resolveModRM()
		regIdx := d.modReg()
		size := aluSize(d.opSize)
		var dest, src uint32
		if sub == 1 {
			dest, src = d.readRM(rm, d.opSize), regVal(c, regIdx, d.opSize)
		} else {
			dest, src = regVal(c, regIdx, d.opSize), d.readRM(rm, d.opSize)
		}
		r, f := alu.Exec(op, dest, src, size, c.Eflags)
		c.Eflags = f
		if op != alu.CMP {
			if sub == 1 {
				d.writeRM(rm, d.opSize, r)
			} else {
				setRegVal(c, regIdx, d.opSize, r)
			}
		}
	case 4: // AL, Ib
		imm := d.fetch8()
		r, f := alu.Exec(op, uint32(c.GetReg8(0)), uint32(imm), alu.Size8, c.Eflags)
		c.Eflags = f
		if op != alu.CMP {
			c.SetReg8(0, byte(r))
		}
	case 5: // eAX, Iv
		var imm uint32
		if d.opSize == 2 {
			imm = uint32(d.fetch16())
		} else {
			imm = d.fetch32()
		}
		r, f := alu.Exec(op, regVal(c, 0, d.opSize), imm, aluSize(d.opSize), c.Eflags)
		c.Eflags = f
		if op != alu.CMP {
			setRegVal(c, 0, d.opSize, r)
		}
	default:
		return Undefined
	}
	return Success
}

// grp1 implements the 80/81/83 immediate ALU group, ModR/M reg field
// selecting the sub-operation (000=ADD .. 111=CMP), grounded on
// cpu_x86_grp.go's opGrp1_Eb_Ib/Ev_Iv/Ev_Ib.
func grp1(c *CPU, d *decoder, opcode byte) Outcome {
	sel := d.modReg()
	op := aluGroupOps[sel]
	rm := d.resolveModRM()

	if opcode == 0x80 {
		a := d.readRM8(rm)
		imm := d.fetch8()
		r, f := alu.Exec(op, uint32(a), uint32(imm), alu.Size8, c.Eflags)
		c.Eflags = f
		if op != alu.CMP {
			d.writeRM8(rm, byte(r))
		}
		return Success
	}

	a := d.readRM(rm, d.opSize)
	var imm uint32
	if opcode == 0x81 {
		if d.opSize == 2 {
			imm = uint32(d.fetch16())
		} else {
			imm = d.fetch32()
		}
	} else { // 0x83: Ev, Ib sign-extended
		b := d.fetch8()
		if d.opSize == 2 {
			imm = uint32(alu.SignExtend8To16(b))
		} else {
			imm = alu.SignExtend8To32(b)
		}
	}
	r, f := alu.Exec(op, a, imm, aluSize(d.opSize), c.Eflags)
	c.Eflags = f
	if op != alu.CMP {
		d.writeRM(rm, d.opSize, r)
	}
	return Success
}

func xchg(c *CPU, d *decoder, opcode byte) Outcome {
	rm := d.resolveModRM()
	regIdx := d.modReg()
	if opcode == 0x86 {
		a, b := d.readRM8(rm), c.GetReg8(regIdx)
		d.writeRM8(rm, b)
		c.SetReg8(regIdx, a)
		return Success
	}
	a, b := d.readRM(rm, d.opSize), regVal(c, regIdx, d.opSize)
	d.writeRM(rm, d.opSize, b)
	setRegVal(c, regIdx, d.opSize, a)
	return Success
}

func movRMReg(c *CPU, d *decoder, opcode byte) Outcome {
	rm := d.resolveModRM()
	regIdx := d.modReg()
	switch opcode {
	case 0x88: // Eb, Gb
		d.writeRM8(rm, c.GetReg8(regIdx))
	case 0x89: // Ev, Gv
		d.writeRM(rm, d.opSize, regVal(c, regIdx, d.opSize))
	case 0x8A: // Gb, Eb
		c.SetReg8(regIdx, d.readRM8(rm))
	case 0x8B: // Gv, Ev
		setRegVal(c, regIdx, d.opSize, d.readRM(rm, d.opSize))
	}
	return Success
}

// regVal/setRegVal read or write a general register at operand size
// 2 or 4, used throughout the general ALU path.
func regVal(c *CPU, idx byte, opSize int) uint32 {
	if opSize == 2 {
		return uint32(c.GetReg16(idx))
	}
	return c.GetReg32(idx)
}

func setRegVal(c *CPU, idx byte, opSize int, v uint32) {
	if opSize == 2 {
		c.SetReg16(idx, uint16(v))
	} else {
		c.SetReg32(idx, v)
	}
}

func aluSize(opSize int) alu.Size {
	if opSize == 2 {
		return alu.Size16
	}
	return alu.Size32
}
