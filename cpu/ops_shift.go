// ops_shift.go - Grp2 shift group (C0 Eb,Ib / C1 Ev,Ib): SHL and SHR only
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import "github.com/zotley/ia32core/eflags"

// grp2Shift implements C0/C1 per spec §4.5: reg field 100=SHL, 101=SHR;
// any other reg value is undefined in this subset (ROL/ROR/RCL/RCR/SAR
// are not implemented).
func grp2Shift(c *CPU, d *decoder, is8bit bool) Outcome {
	sel := d.modReg()
	if sel != 4 && sel != 5 {
		return Undefined
	}
	rm := d.resolveModRM()
	count := d.fetch8() & 0x1F

	size := 4
	if is8bit {
		size = 1
	} else {
		size = d.opSize
	}
	bits := uint(size) * 8

	var v uint32
	if is8bit {
		v = uint32(d.readRM8(rm))
	} else {
		v = d.readRM(rm, size)
	}

	if count == 0 {
		return Success
	}

	var result uint32
	var cf bool
	if sel == 4 { // SHL
		shifted := uint64(v) << count
		result = uint32(shifted) & maskOf(bits)
		if count <= uint8(bits) {
			cf = (shifted>>(bits-uint(count)))&1 != 0
		}
	} else { // SHR
		result = (v & maskOf(bits)) >> count
		cf = (v>>(count-1))&1 != 0
	}

	f := c.Eflags.SetCF(cf)
	f = f.SetZF(result&maskOf(bits) == 0)
	f = f.SetSF((result>>(bits-1))&1 != 0)
	f = f.SetPF(eflags.Parity(byte(result)))
	c.Eflags = f

	if is8bit {
		d.writeRM8(rm, byte(result))
	} else {
		d.writeRM(rm, size, result)
	}
	return Success
}

func maskOf(bits uint) uint32 {
	if bits >= 32 {
		return 0xFFFFFFFF
	}
	return 1<<bits - 1
}

func opGrp2Eb(c *CPU, d *decoder) Outcome { return grp2Shift(c, d, true) }
func opGrp2Ev(c *CPU, d *decoder) Outcome { return grp2Shift(c, d, false) }
