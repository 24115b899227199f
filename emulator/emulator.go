// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/tiny8/cpu"
	"github.com/ezrec/tiny8/internal"
	"github.com/ezrec/tiny8/memory"
)

const (
	PROGRESS_INTERVAL = 1000 // Default steps between Progress calls.
)

var _emulator_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", cpu.REGISTER_COUNT),
}

// Emulator state. CPU + memory + the loaded program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	// Progress, if set, is called every ProgressInterval steps of Run
	// with the number of steps executed so far.
	Progress         func(steps int)
	ProgressInterval int

	predefine map[string]string
	ramSize   int
	romSize   int
}

// NewEmulator creates a new emulator.
// A size of zero selects the memory default.
func NewEmulator(ramSize, romSize int) (emu *Emulator) {
	emu = &Emulator{
		ramSize: ramSize,
		romSize: romSize,
		Program: &cpu.Program{},
	}

	emu.Cpu = cpu.NewCpu(memory.NewMemory(ramSize, romSize))

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Memory.Defines(),
		emu.Cpu.Defines(),
	)
}

// Predefine adds an assembler equate, overriding the emulator defines.
func (emu *Emulator) Predefine(equ string, value string) {
	if emu.predefine == nil {
		emu.predefine = map[string]string{}
	}
	emu.predefine[equ] = value
}

// Assemble a program, with the emulator defines available as equates,
// and load it.
func (emu *Emulator) Assemble(input io.Reader) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}
	for name, value := range emu.predefine {
		asm.Predefine(name, value)
	}

	prog, err = asm.Parse(input)
	if err != nil {
		return
	}

	emu.Load(prog)

	return
}

// Load a program. CPU state other than the program counter is kept.
func (emu *Emulator) Load(prog *cpu.Program) {
	if prog == nil {
		prog = &cpu.Program{}
	}

	emu.Program = prog
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.LoadProgram(prog)
}

// Reset the emulator to a fresh CPU and RAM, and reload the program.
// ROM contents are kept.
func (emu *Emulator) Reset() {
	old := emu.Cpu

	mem := memory.NewMemory(emu.ramSize, emu.romSize)
	mem.Verbose = old.Memory.Verbose

	rom := old.Memory.SnapshotRom()
	image := make([]int, len(rom))
	for n, value := range rom {
		image[n] = int(value)
	}
	// Same size, so this cannot fail.
	_ = mem.LoadRom(image)
	mem.RomChanges = nil

	emu.Cpu = cpu.NewCpu(mem)
	emu.Cpu.TraceLimit = old.TraceLimit

	if emu.Verbose {
		log.Printf("emu: reset after %d steps", old.Steps())
	}

	emu.Load(emu.Program)
}

// LineNo returns the current line number for the executing instruction,
// or 0 if there is none.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Cpu.Pc())
}

// Step performs a single instruction of the emulator.
// Returns done when the program has ended.
func (emu *Emulator) Step() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	executed, err := emu.Cpu.Step()
	if err != nil {
		return
	}

	done = !executed

	return
}

// Run steps until the program ends or maxSteps instructions have executed.
func (emu *Emulator) Run(maxSteps int) (steps int, err error) {
	interval := emu.ProgressInterval
	if interval <= 0 {
		interval = PROGRESS_INTERVAL
	}

	for steps < maxSteps {
		var done bool
		done, err = emu.Step()
		if err != nil || done {
			break
		}
		steps++

		if emu.Progress != nil && steps%interval == 0 {
			emu.Progress(steps)
		}
	}

	if emu.Verbose {
		log.Printf("emu: ran %d steps, pc %d", steps, emu.Cpu.Pc())
	}

	return
}
