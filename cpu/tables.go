// tables.go - one-byte and 0F-escape opcode dispatch tables
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import "github.com/zotley/ia32core/alu"

// baseOps and extendedOps are package-level dense jump tables, built
// once at init time. Grounded on the teacher's initBaseOps/
// initExtendedOps in cpu_x86.go, which build an identical [256]func
// shape per CPU_X86 instance; here the tables hold no per-CPU state so
// they are shared across every *CPU.
var baseOps [256]handler
var extendedOps [256]handler

func init() {
	for i := byte(0x40); i <= 0x47; i++ {
		baseOps[i] = incDecReg(alu.INC, i-0x40)
	}
	for i := byte(0x48); i <= 0x4F; i++ {
		baseOps[i] = incDecReg(alu.DEC, i-0x48)
	}
	for i := byte(0x50); i <= 0x57; i++ {
		baseOps[i] = pushReg(i - 0x50)
	}
	for i := byte(0x58); i <= 0x5F; i++ {
		baseOps[i] = popReg(i - 0x58)
	}
	for i := byte(0x70); i <= 0x7F; i++ {
		baseOps[i] = jccRel8(i - 0x70)
	}
	for i := byte(0xB0); i <= 0xB7; i++ {
		baseOps[i] = movRegImm8(i - 0xB0)
	}
	for i := byte(0xB8); i <= 0xBF; i++ {
		baseOps[i] = movRegImm32(i - 0xB8)
	}
	for i := byte(0x91); i <= 0x97; i++ {
		baseOps[i] = xchgAX(i - 0x90)
	}

	baseOps[0x8E] = opMovSegEw
	baseOps[0x90] = opNop
	baseOps[0xA0] = opMovOffsetToAL
	baseOps[0xA1] = opMovOffsetToEAX
	baseOps[0xA4] = opMovs8
	baseOps[0xA5] = opMovsWD
	baseOps[0xAA] = opStos8
	baseOps[0xAB] = opStosWD
	baseOps[0xC0] = opGrp2Eb
	baseOps[0xC1] = opGrp2Ev
	baseOps[0xC3] = opRetNear
	baseOps[0x9C] = opPushfd
	baseOps[0x9D] = opPopfd
	baseOps[0xCC] = opInt3
	baseOps[0xCF] = opIret
	baseOps[0xE0] = loopFamily(2) // LOOPNE
	baseOps[0xE1] = loopFamily(1) // LOOPE
	baseOps[0xE2] = loopFamily(0) // LOOP
	baseOps[0xE4] = opInAL
	baseOps[0xE5] = opInEAXImm
	baseOps[0xE6] = opOutAL
	baseOps[0xE7] = opOutEAXImm
	baseOps[0xE8] = opCallRel32
	baseOps[0xE9] = opJmpRel32
	baseOps[0xEA] = opJmpFar
	baseOps[0xEB] = opJmpRel8
	baseOps[0xEC] = opInDX
	baseOps[0xED] = opInEAXDX
	baseOps[0xEE] = opOutDX
	baseOps[0xEF] = opOutEAXDX
	baseOps[0xF4] = opHlt
	baseOps[0xFA] = opCli
	baseOps[0xFB] = opSti
	baseOps[0xFC] = opCld
	baseOps[0xFD] = opStd
	baseOps[0xFE] = grp4
	baseOps[0xFF] = opJmpIndirect

	extendedOps[0x00] = opGrp0F00
	extendedOps[0x01] = opGrp0F01
	extendedOps[0x08] = opInvd
	extendedOps[0x09] = opWbinvd
	extendedOps[0x20] = opMovR32CRn
	extendedOps[0x22] = opMovCRnR32
	extendedOps[0x30] = opWrmsr
	extendedOps[0xB6] = opMovzxB
	extendedOps[0xB7] = opMovzxW
	extendedOps[0xBE] = opMovsxB
	extendedOps[0xBF] = opMovsxW
	for i := byte(0x80); i <= 0x8F; i++ {
		extendedOps[i] = opJccRel32(i - 0x80)
	}
}
