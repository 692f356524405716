// ops_stack.go - PUSH/POP r32 (50-5F), PUSHFD/POPFD, RET, INT3, IRET
//
// Stack opcodes beyond PUSH/POP r32 are not part of the required opcode
// surface but are carried as ambient instructions the way the teacher's
// one-byte table always includes them (cpu_x86.go's initBaseOps wires
// the full PUSH/POP/CALL/RET family unconditionally).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import "github.com/zotley/ia32core/eflags"

func pushReg(idx byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		if d.opSize == 2 {
			c.push16(c.GetReg16(idx))
		} else {
			c.push32(c.GetReg32(idx))
		}
		return Success
	}
}

func popReg(idx byte) handler {
	return func(c *CPU, d *decoder) Outcome {
		if d.opSize == 2 {
			c.SetReg16(idx, c.pop16())
		} else {
			c.SetReg32(idx, c.pop32())
		}
		return Success
	}
}

func opPushfd(c *CPU, d *decoder) Outcome {
	if d.opSize == 2 {
		c.push16(uint16(c.Eflags.Raw()))
	} else {
		c.push32(c.Eflags.Raw())
	}
	return Success
}

func opPopfd(c *CPU, d *decoder) Outcome {
	if d.opSize == 2 {
		lo := uint32(c.pop16())
		c.Eflags = eflags.FromRaw((c.Eflags.Raw() &^ 0xFFFF) | lo)
	} else {
		c.Eflags = eflags.FromRaw(c.pop32())
	}
	return Success
}

// opCallRel32 implements E8: CALL rel16/rel32 (near, relative). Same
// displacement-fetch shape as opJmpRel32, but pushes the return address
// (the address of the following instruction) before redirecting EIP.
func opCallRel32(c *CPU, d *decoder) Outcome {
	var disp int32
	if d.opSize == 2 {
		disp = int32(int16(d.fetch16()))
	} else {
		disp = int32(d.fetch32())
	}
	ret := d.base + d.cur
	if d.opSize == 2 {
		c.push16(uint16(ret))
	} else {
		c.push32(ret)
	}
	d.setJump(uint32(int32(ret) + disp))
	return Success
}

func opRetNear(c *CPU, d *decoder) Outcome {
	var target uint32
	if d.opSize == 2 {
		target = uint32(c.pop16())
	} else {
		target = c.pop32()
	}
	d.setJump(target)
	return Success
}

func opInt3(c *CPU, d *decoder) Outcome {
	// Interrupt delivery is out of scope; INT3 is accepted as a no-op
	// breakpoint trap rather than vectoring through the IDT.
	return Success
}

func opIret(c *CPU, d *decoder) Outcome {
	var target uint32
	if d.opSize == 2 {
		target = uint32(c.pop16())
	} else {
		target = c.pop32()
	}
	_ = c.pop16() // CS, discarded: no privilege/segment switch modeled
	if d.opSize == 2 {
		lo := uint32(c.pop16())
		c.Eflags = eflags.FromRaw((c.Eflags.Raw() &^ 0xFFFF) | lo)
	} else {
		c.Eflags = eflags.FromRaw(c.pop32())
	}
	d.setJump(target)
	return Success
}
