// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	stdio "io"
	"iter"
	"log"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
	"github.com/ezrec/uvm/io"
)

// Emulator state. CPU + program listing + program image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Rom      io.Rom       // Program image loaded at reset.

	predefine map[string]string
}

// NewEmulator creates a new emulator.
func NewEmulator(config cpu.Config) (emu *Emulator, err error) {
	vm, err := cpu.NewCpu(config)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:     vm,
		Program: &cpu.Program{},
	}

	return
}

// Predefine adds an assembler equate for programs assembled by Assemble.
func (emu *Emulator) Predefine(equ string, value string) {
	if emu.predefine == nil {
		emu.predefine = map[string]string{}
	}
	emu.predefine[equ] = value
}

// Defines returns an iterator over all of the defines, sorted by name.
// Predefines override the machine sizes.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	sizes := map[string]string{
		"REGISTER_COUNT": fmt.Sprintf("%v", emu.Memory.RegisterCount()),
		"DATA_SIZE":      fmt.Sprintf("%v", emu.Memory.DataSize()),
		"LIMIT":          fmt.Sprintf("%v", emu.Limit),
	}

	return internal.Layered(sizes, emu.predefine)
}

// Assemble parses source into the program listing and image, then resets.
func (emu *Emulator) Assemble(source stdio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Rom.Data = prog.Binary()

	err = emu.Reset()
	return
}

// LoadRom loads a program image, disassembling it for the listing, then
// resets. An image that fails to disassemble is still loaded; the fault is
// reported when execution reaches it.
func (emu *Emulator) LoadRom(rom io.Rom) (err error) {
	prog, derr := cpu.Disassemble(rom.Data)
	if derr != nil && emu.Verbose {
		log.Printf("emulator: %v", derr)
	}

	emu.Program = prog
	emu.Rom = rom

	err = emu.Reset()
	return
}

// Reset clears the machine and loads the program image.
func (emu *Emulator) Reset() (err error) {
	if len(emu.Rom.Data) == 0 {
		err = ErrProgramMissing
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Load(emu.Rom.Data)

	return
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Ip
}

// LineNo returns the current line number for the executing instruction,
// or 0 if the ip is outside of the listing.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	line := emu.Program.Debug(emu.Cpu.Ip)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno, ip := emu.LineNo(), emu.Ip()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	done, err = emu.Cpu.Tick()
	return
}

// Run runs the program until it halts. Faults are reported with the line
// number of the failing instruction.
func (emu *Emulator) Run(ctx context.Context, maxSteps int) (halt cpu.Halt, err error) {
	emu.Cpu.Verbose = emu.Verbose

	halt, err = emu.Cpu.Run(ctx, maxSteps)
	if err != nil {
		// A fault leaves the ip at the failing instruction.
		err = &ErrRuntime{LineNo: emu.LineNo(), Ip: emu.Ip(), Err: err}
		halt.Err = err
	}

	return
}
