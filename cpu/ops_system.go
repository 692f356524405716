// ops_system.go - 0F-escape system group: LLDT/LGDT/LIDT, MOV CRn,
// INVD/WBINVD/WRMSR stubs, MOVZX/MOVSX
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

// opGrp0F00 implements 0F 00 /2 = LLDT r/m16: loads LDTR's selector.
// This subset does not walk the GDT to populate LDTR's base/limit from
// the selector (no LDT-relative addressing is otherwise implemented),
// so only the selector is recorded.
func opGrp0F00(c *CPU, d *decoder) Outcome {
	sel := d.modReg()
	if sel != 2 {
		return Undefined
	}
	rm := d.resolveModRM()
	c.LDTR.Selector = d.readRM16(rm)
	return Success
}

// opGrp0F01 implements 0F 01 /2 = LGDT m, /3 = LIDT m: read a 6-byte
// pseudo-descriptor (16-bit limit, 32-bit base) at the operand's
// effective address. Grounded on original_source/src/cpu.c's lgdt/lidt;
// lidt there has a copy-paste bug writing to cpu->gdt.base instead of
// cpu->idt.base, not reproduced here — each loads its own register.
func opGrp0F01(c *CPU, d *decoder) Outcome {
	sel := d.modReg()
	if sel != 2 && sel != 3 {
		return Undefined
	}
	rm := d.resolveModRM()
	if rm.kind != kindIndirect {
		return Undefined
	}
	addr := rm.addr
	limit := uint32(c.Mem.ReadWord(addr))
	base := c.Mem.ReadDword(addr + 2)
	if d.opSize == 2 {
		base &= 0x00FFFFFF
	}
	desc := Descriptor{Base: base, Limit: limit}
	if sel == 2 {
		c.GDTR = desc
	} else {
		c.IDTR = desc
	}
	return Success
}

func opInvd(c *CPU, d *decoder) Outcome  { return Success } // modeled as nop
func opWbinvd(c *CPU, d *decoder) Outcome { return Success } // modeled as nop
func opWrmsr(c *CPU, d *decoder) Outcome  { return Success } // modeled as nop

// opMovR32CRn implements 0F 20: MOV r32, CRn.
func opMovR32CRn(c *CPU, d *decoder) Outcome {
	n := d.modReg()
	rm := d.modRM() // always a register per the ModR/M encoding rules for this form
	c.SetReg32(rm, c.GetCR(n))
	return Success
}

// opMovCRnR32 implements 0F 22: MOV CRn, r32, with the reserved-register
// #UD rule (n ∈ {1,5,6,7}) spec adds beyond original_source's
// mov_cr_r32, which writes any index unconditionally.
func opMovCRnR32(c *CPU, d *decoder) Outcome {
	n := d.modReg()
	if ReservedCR(n) {
		return Undefined
	}
	rm := d.modRM()
	c.SetCR(n, c.GetReg32(rm))
	return Success
}

// opMovzx/opMovsx implement 0F B6/B7 (zero-extend) and 0F BE/BF
// (sign-extend) byte/word sources into the operand-size destination.
func opMovzxB(c *CPU, d *decoder) Outcome {
	rm := d.resolveModRM()
	regIdx := d.modReg()
	v := uint32(d.readRM8(rm))
	setRegVal(c, regIdx, d.opSize, v)
	return Success
}

func opMovzxW(c *CPU, d *decoder) Outcome {
	rm := d.resolveModRM()
	regIdx := d.modReg()
	v := uint32(d.readRM16(rm))
	setRegVal(c, regIdx, d.opSize, v)
	return Success
}

func opMovsxB(c *CPU, d *decoder) Outcome {
	rm := d.resolveModRM()
	regIdx := d.modReg()
	v := uint32(int32(int8(d.readRM8(rm))))
	setRegVal(c, regIdx, d.opSize, v)
	return Success
}

func opMovsxW(c *CPU, d *decoder) Outcome {
	rm := d.resolveModRM()
	regIdx := d.modReg()
	v := uint32(int32(int16(d.readRM16(rm))))
	setRegVal(c, regIdx, d.opSize, v)
	return Success
}
