// ops_jump.go - Jcc, LOOP family, JMP (near/far/indirect), IN/OUT, HLT,
// flag-bit set/clear instructions
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

// evalCond implements the standard IA-32 condition-code table, keyed by
// the low nibble of a Jcc opcode (one-byte 70-7F or two-byte 0F 80-8F).
func evalCond(c *CPU, nibble byte) bool {
	f := c.Eflags
	switch nibble {
	case 0x0:
		return f.OF()
	case 0x1:
		return !f.OF()
	case 0x2:
		return f.CF()
	case 0x3:
		return !f.CF()
	case 0x4:
		return f.ZF()
	case 0x5:
		return !f.ZF()
	case 0x6:
		return f.CF() || f.ZF()
	case 0x7:
		return !f.CF() && !f.ZF()
	case 0x8:
		return f.SF()
	case 0x9:
		return !f.SF()
	case 0xA:
		return f.PF()
	case 0xB:
		return !f.PF()
	case 0xC:
		return f.SF() != f.OF()
	case 0xD:
		return f.SF() == f.OF()
	case 0xE:
		return f.ZF() || f.SF() != f.OF()
	case 0xF:
		return !f.ZF() && f.SF() == f.OF()
	}
	return false
}

// jccRel8 builds a handler for one of the 0x70-0x7F one-byte Jcc forms.
func jccRel8(nibble byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		disp := int8(d.fetch8())
		if evalCond(c, nibble) {
			d.setJump(uint32(int32(d.base+d.cur) + int32(disp)))
		}
		return Success
	}
}

// opJccRel32 implements the 0F 80-8F two-byte forms (rel16/rel32,
// operand-size dependent).
func opJccRel32(nibble byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		var disp int32
		if d.opSize == 2 {
			disp = int32(int16(d.fetch16()))
		} else {
			disp = int32(d.fetch32())
		}
		if evalCond(c, nibble) {
			d.setJump(uint32(int32(d.base+d.cur) + disp))
		}
		return Success
	}
}

func loopFamily(kind byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		disp := int8(d.fetch8())
		ecx := c.GetReg32(1) - 1
		c.SetReg32(1, ecx)
		take := ecx != 0
		switch kind {
		case 1: // LOOPE/LOOPZ
			take = take && c.Eflags.ZF()
		case 2: // LOOPNE/LOOPNZ
			take = take && !c.Eflags.ZF()
		}
		if take {
			d.setJump(uint32(int32(d.base+d.cur) + int32(disp)))
		}
		return Success
	}
}

func opJmpRel32(c *CPU, d *decoder) Outcome {
	var disp int32
	if d.opSize == 2 {
		disp = int32(int16(d.fetch16()))
	} else {
		disp = int32(d.fetch32())
	}
	d.setJump(uint32(int32(d.base+d.cur) + disp))
	return Success
}

func opJmpRel8(c *CPU, d *decoder) Outcome {
	disp := int8(d.fetch8())
	d.setJump(uint32(int32(d.base+d.cur) + int32(disp)))
	return Success
}

// opJmpFar implements EA ptr16:32 per spec §4.5: fetch the 4-byte offset
// then the 2-byte selector, reconcile real/protected mode against CR0.PE,
// then load CS and its shadow descriptor under the new mode and set EIP
// to the offset absolutely. Grounded on original_source/src/cpu.c's jmp_far, whose
// offset-then-selector fetch order this preserves.
func opJmpFar(c *CPU, d *decoder) Outcome {
	offset := d.fetch32()
	selector := d.fetch16()

	// Reconcile Mode against CR0.PE before loading CS: this jump is the
	// trigger for a real<->protected transition, so the new selector must
	// be interpreted (flat fold vs GDT lookup) under the mode it is
	// switching into, not the mode it is leaving.
	if c.CR0PE() {
		c.Mode = ModeProtected
	} else {
		c.Mode = ModeReal
	}
	loadSegment(c, SegCS, selector)

	d.setJump(offset)
	return Success
}

// opJmpIndirect implements 0xFF /4: JMP r/m32 (near absolute jump
// through a register or memory operand). Other Grp5 sub-opcodes
// (INC/DEC/CALL/PUSH Ev) are outside this subset's required surface.
func opJmpIndirect(c *CPU, d *decoder) Outcome {
	sel := d.modReg()
	if sel != 4 {
		return Undefined
	}
	rm := d.resolveModRM()
	target := d.readRM(rm, d.opSize)
	d.setJump(target)
	return Success
}

func opInAL(c *CPU, d *decoder) Outcome {
	port := d.fetch8()
	c.SetReg8(0, c.Ports.In(uint16(port)))
	return Success
}

func opOutAL(c *CPU, d *decoder) Outcome {
	port := d.fetch8()
	c.Ports.Out(uint16(port), c.GetReg8(0))
	return Success
}

func opInDX(c *CPU, d *decoder) Outcome {
	c.SetReg8(0, c.Ports.In(c.GetReg16(2)))
	return Success
}

func opOutDX(c *CPU, d *decoder) Outcome {
	c.Ports.Out(c.GetReg16(2), c.GetReg8(0))
	return Success
}

// opInEAXImm/opOutEAXImm implement E5/E7: IN/OUT eAX, imm8 — operand-
// size wide, but the port stub only ever produces a byte, so the upper
// bits read as zero.
func opInEAXImm(c *CPU, d *decoder) Outcome {
	port := d.fetch8()
	v := uint32(c.Ports.In(uint16(port)))
	setRegVal(c, 0, d.opSize, v)
	return Success
}

func opOutEAXImm(c *CPU, d *decoder) Outcome {
	port := d.fetch8()
	c.Ports.Out(uint16(port), byte(regVal(c, 0, d.opSize)))
	return Success
}

func opInEAXDX(c *CPU, d *decoder) Outcome {
	v := uint32(c.Ports.In(c.GetReg16(2)))
	setRegVal(c, 0, d.opSize, v)
	return Success
}

func opOutEAXDX(c *CPU, d *decoder) Outcome {
	c.Ports.Out(c.GetReg16(2), byte(regVal(c, 0, d.opSize)))
	return Success
}

func opHlt(c *CPU, d *decoder) Outcome { return Halted }

func opCli(c *CPU, d *decoder) Outcome { c.Eflags = c.Eflags.SetIF(false); return Success }
func opSti(c *CPU, d *decoder) Outcome { c.Eflags = c.Eflags.SetIF(true); return Success }
func opCld(c *CPU, d *decoder) Outcome { c.Eflags = c.Eflags.SetDF(false); return Success }
func opStd(c *CPU, d *decoder) Outcome { c.Eflags = c.Eflags.SetDF(true); return Success }
