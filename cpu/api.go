// api.go - public operations boundary (spec §6): create, load, step,
// debug read/write, register dump
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package cpu

import (
	"fmt"
	"strings"

	"github.com/zotley/ia32core/memmap"
)

// Create allocates a CPU over explicit ROM/RAM address ranges and
// returns it reset to power-on state, or an error if the ranges
// overlap. This is the only fallible operation in the public surface;
// everything after Create is infallible per spec §7.
func Create(romBase, romEnd, ramBase, ramEnd uint32, ports Ports) (*CPU, error) {
	mem, err := memmap.NewWithBases(romBase, romEnd, ramBase, ramEnd)
	if err != nil {
		return nil, err
	}
	return New(mem, ports), nil
}

// LoadROMBytes bulk-loads bytes into the ROM span starting at offset,
// used by an external ROM/image loader.
func (c *CPU) LoadROMBytes(offset uint32, data []byte) {
	c.Mem.LoadROMAt(offset, data)
}

// LoadRAMBytes bulk-loads bytes into the RAM span starting at offset.
func (c *CPU) LoadRAMBytes(offset uint32, data []byte) {
	c.Mem.LoadRAMAt(offset, data)
}

// ReadByte/ReadWord/ReadDword and WriteByte/WriteWord/WriteDword give a
// debugger host raw linear-address access, bypassing segment
// translation entirely (the host already has a linear address to
// inspect, e.g. from disassemble_at or a breakpoint).
func (c *CPU) ReadByte(addr uint32) byte    { return c.Mem.ReadByte(addr) }
func (c *CPU) ReadWord(addr uint32) uint16  { return c.Mem.ReadWord(addr) }
func (c *CPU) ReadDword(addr uint32) uint32 { return c.Mem.ReadDword(addr) }

func (c *CPU) WriteByte(addr uint32, v byte)    { c.Mem.WriteByte(addr, v) }
func (c *CPU) WriteWord(addr uint32, v uint16)  { c.Mem.WriteWord(addr, v) }
func (c *CPU) WriteDword(addr uint32, v uint32) { c.Mem.WriteDword(addr, v) }

var regNames32 = [8]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI"}
var segNames = [6]string{"ES", "CS", "SS", "DS", "FS", "GS"}

// DumpRegisters renders the full visible register file as text, in the
// plain key=value style the teacher's debug_cpu_x86.go dump commands
// use (no tabular alignment logic, just one line per register group).
func (c *CPU) DumpRegisters() string {
	var b strings.Builder
	for i, name := range regNames32 {
		fmt.Fprintf(&b, "%s=%08X ", name, c.GetReg32(byte(i)))
	}
	fmt.Fprintf(&b, "\nEIP=%08X EFLAGS=%08X MODE=%v HALTED=%v\n", c.EIP, c.Eflags.Raw(), c.Mode, c.Halted)
	for i, name := range segNames {
		fmt.Fprintf(&b, "%s=%04X(base=%08X) ", name, c.segSel[i], c.segDesc[i].Base)
	}
	b.WriteByte('\n')
	return b.String()
}
