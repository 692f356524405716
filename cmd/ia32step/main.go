// main.go - ia32step CLI: load a raw ROM image, single-step, dump state
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/zotley/ia32core/cpu"
	"github.com/zotley/ia32core/disasm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ia32step",
		Short: "Single-step driver for the ia32core CPU emulation library",
	}

	var romPath string
	var ramSize uint32
	var maxSteps int
	var traceEach bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Load a ROM image and step until halted, undefined, or maxSteps",
		RunE: func(cmd *cobra.Command, args []string) error {
			if romPath == "" {
				return fmt.Errorf("--rom is required")
			}
			data, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("reading rom image: %w", err)
			}

			c, err := cpu.Create(0xFFFF0000, 0xFFFFFFFF, 0x00000000, ramSize-1, cpu.NullPorts{})
			if err != nil {
				return fmt.Errorf("create: %w", err)
			}
			c.LoadROMBytes(0, data)

			for i := 0; i < maxSteps; i++ {
				if traceEach {
					fmt.Println(disasm.Line(c, c.EIP))
				}
				out := c.Step()
				switch out {
				case cpu.Success:
					continue
				case cpu.Halted:
					fmt.Println("halted")
					fmt.Print(c.DumpRegisters())
					return nil
				case cpu.Undefined:
					log.Printf("undefined opcode at EIP=%#08x: %s", c.EIP, disasm.Line(c, c.EIP))
					fmt.Print(c.DumpRegisters())
					return fmt.Errorf("undefined opcode")
				case cpu.Fatal:
					return fmt.Errorf("fatal core error at EIP=%#08x", c.EIP)
				}
			}
			fmt.Printf("stopped after %d steps\n", maxSteps)
			fmt.Print(c.DumpRegisters())
			return nil
		},
	}
	runCmd.Flags().StringVar(&romPath, "rom", "", "path to a raw ROM image")
	runCmd.Flags().Uint32Var(&ramSize, "ram", 0x10000, "RAM span size in bytes")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 10000, "maximum instructions to execute")
	runCmd.Flags().BoolVar(&traceEach, "trace", false, "print a disassembly line before each step")

	var disasmRom string
	var disasmCount int
	disasmCmd := &cobra.Command{
		Use:   "disasm",
		Short: "Load a ROM image and disassemble from the reset vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			if disasmRom == "" {
				return fmt.Errorf("--rom is required")
			}
			data, err := os.ReadFile(disasmRom)
			if err != nil {
				return fmt.Errorf("reading rom image: %w", err)
			}
			c, err := cpu.Create(0xFFFF0000, 0xFFFFFFFF, 0x00000000, 0xFFFF, cpu.NullPorts{})
			if err != nil {
				return fmt.Errorf("create: %w", err)
			}
			c.LoadROMBytes(0, data)

			eip := c.EIP
			for i := 0; i < disasmCount; i++ {
				text, length := disasm.DisassembleAt(c, eip)
				fmt.Printf("%08X: %s\n", eip, text)
				if length == 0 {
					break
				}
				eip += length
			}
			return nil
		},
	}
	disasmCmd.Flags().StringVar(&disasmRom, "rom", "", "path to a raw ROM image")
	disasmCmd.Flags().IntVar(&disasmCount, "count", 32, "number of instructions to disassemble")

	rootCmd.AddCommand(runCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
