// ops_string.go - MOVSB/MOVSW/MOVSD and STOSB/STOSW/STOSD, with REP
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

// stepSize returns operand-size-many bytes, signed by DF: spec's
// resolved Open Question is that ESI/EDI always advance by operand
// size, never address size — original_source/src/cpu.c's STOS handler
// mixes the two; that bug is not reproduced here.
func stepSize(c *CPU, size int) uint32 {
	if c.Eflags.DF() {
		return uint32(-int32(size))
	}
	return uint32(size)
}

func movsOnce(c *CPU, d *decoder) {
	size := d.opSize
	srcAddr := c.TranslateData(effectiveSeg(d), c.GetReg32(6)) // ESI
	dstAddr := c.TranslateData(SegES, c.GetReg32(7))           // EDI, always ES
	step := stepSize(c, size)
	switch size {
	case 1:
		c.Mem.WriteByte(dstAddr, c.Mem.ReadByte(srcAddr))
	case 2:
		c.Mem.WriteWord(dstAddr, c.Mem.ReadWord(srcAddr))
	default:
		c.Mem.WriteDword(dstAddr, c.Mem.ReadDword(srcAddr))
	}
	c.SetReg32(6, c.GetReg32(6)+step)
	c.SetReg32(7, c.GetReg32(7)+step)
}

func stosOnce(c *CPU, d *decoder) {
	size := d.opSize
	dstAddr := c.TranslateData(SegES, c.GetReg32(7))
	step := stepSize(c, size)
	switch size {
	case 1:
		c.Mem.WriteByte(dstAddr, c.GetReg8(0))
	case 2:
		c.Mem.WriteWord(dstAddr, c.GetReg16(0))
	default:
		c.Mem.WriteDword(dstAddr, c.GetReg32(0))
	}
	c.SetReg32(7, c.GetReg32(7)+step)
}

// opMovs8/opMovsWD implement A4/A5. When a REP prefix (F3) preceded
// the opcode, the operation repeats, decrementing ECX, until ECX=0 —
// grounded on spec §4.5's "REP MOVS decrements ECX and repeats until
// ECX=0" and the F3-escape table entries.
func opMovs8(c *CPU, d *decoder) Outcome { return repString(c, d, 1, movsOnce) }
func opMovsWD(c *CPU, d *decoder) Outcome {
	return repString(c, d, d.opSize, movsOnce)
}

func opStos8(c *CPU, d *decoder) Outcome { return repString(c, d, 1, stosOnce) }
func opStosWD(c *CPU, d *decoder) Outcome {
	return repString(c, d, d.opSize, stosOnce)
}

func repString(c *CPU, d *decoder, size int, once func(c *CPU, d *decoder)) Outcome {
	saved := d.opSize
	d.opSize = size
	defer func() { d.opSize = saved }()

	if d.rep == 0 {
		once(c, d)
		return Success
	}
	for c.GetReg32(1) != 0 { // ECX
		once(c, d)
		c.SetReg32(1, c.GetReg32(1)-1)
	}
	return Success
}
