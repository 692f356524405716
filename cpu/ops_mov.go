// ops_mov.go - MOV immediate forms, segment MOV, XCHG-with-AX, NOP,
// direct-offset MOV (A0/A1)
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

func opNop(c *CPU, d *decoder) Outcome { return Success }

func movRegImm8(idx byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		c.SetReg8(idx, d.fetch8())
		return Success
	}
}

func movRegImm32(idx byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		if d.opSize == 2 {
			c.SetReg16(idx, d.fetch16())
		} else {
			c.SetReg32(idx, d.fetch32())
		}
		return Success
	}
}

func xchgAX(idx byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		a := regVal(c, 0, d.opSize)
		b := regVal(c, idx, d.opSize)
		setRegVal(c, 0, d.opSize, b)
		setRegVal(c, idx, d.opSize, a)
		return Success
	}
}

// opMovSegEw implements 8E: MOV Sw, Ew. The segment register is
// selected by ModR/M reg (0..5 in this module's ES/CS/SS/DS/FS/GS
// order); loading CS this way is not a valid real encoding on real
// hardware but is accepted here rather than special-cased away.
func opMovSegEw(c *CPU, d *decoder) Outcome {
	seg := int(d.modReg())
	if seg > SegGS {
		return Undefined
	}
	rm := d.resolveModRM()
	selector := d.readRM16(rm)
	loadSegment(c, seg, selector)
	return Success
}

// loadSegment updates a segment's selector and shadow descriptor,
// consulting the GDT in protected mode and deriving a flat real-mode
// descriptor otherwise.
func loadSegment(c *CPU, seg int, selector uint16) {
	if c.Mode == ModeProtected {
		c.LoadSegmentDescriptor(seg, selector)
	} else {
		c.LoadSegmentReal(seg, selector)
	}
}

// opMovOffsetToAL / opMovOffsetToEAX implement A0/A1: MOV AL/eAX,
// [moffs], a direct-addressed load through DS (or a segment override)
// with no ModR/M byte — the address-sized immediate itself is the
// offset.
func opMovOffsetToAL(c *CPU, d *decoder) Outcome {
	offset := fetchMoffs(d)
	addr := c.TranslateData(effectiveSeg(d), offset)
	c.SetReg8(0, c.Mem.ReadByte(addr))
	return Success
}

func opMovOffsetToEAX(c *CPU, d *decoder) Outcome {
	offset := fetchMoffs(d)
	addr := c.TranslateData(effectiveSeg(d), offset)
	if d.opSize == 2 {
		c.SetReg16(0, c.Mem.ReadWord(addr))
	} else {
		c.SetReg32(0, c.Mem.ReadDword(addr))
	}
	return Success
}

func fetchMoffs(d *decoder) uint32 {
	if d.addrSize == 2 {
		return uint32(d.fetch16())
	}
	return d.fetch32()
}

func effectiveSeg(d *decoder) int {
	if d.segOverride >= 0 {
		return d.segOverride
	}
	return SegDS
}
