// ops_incdec.go - INC/DEC r32 (40-4F) and Grp4 INC/DEC Eb (FE)
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import "github.com/zotley/ia32core/alu"

// incDecReg builds a handler for one of the 40-47 (INC) / 48-4F (DEC)
// register rows.
func incDecReg(op alu.Op, idx byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		size := aluSize(d.opSize)
		v := regVal(c, idx, d.opSize)
		r, f := alu.Exec(op, v, 0, size, c.Eflags)
		c.Eflags = f
		setRegVal(c, idx, d.opSize, r)
		return Success
	}
}

// grp4 implements FE /0 = INC Eb, /1 = DEC Eb; other reg values are
// reserved (#UD) for this subset.
func grp4(c *CPU, d *decoder) Outcome {
	sel := d.modReg()
	rm := d.resolveModRM()
	var op alu.Op
	switch sel {
	case 0:
		op = alu.INC
	case 1:
		op = alu.DEC
	default:
		return Undefined
	}
	a := d.readRM8(rm)
	r, f := alu.Exec(op, uint32(a), 0, alu.Size8, c.Eflags)
	c.Eflags = f
	d.writeRM8(rm, byte(r))
	return Success
}
