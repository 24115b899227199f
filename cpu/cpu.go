// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/tiny8/memory"
)

const (
	REGISTER_COUNT    = 32     // Number of general purpose registers.
	DEFAULT_MAX_STEPS = 100000 // Default step budget for Run.
)

var _cpu_defines = map[string]string{
	"SREG_C": fmt.Sprintf("%d", int(FLAG_C)),
	"SREG_Z": fmt.Sprintf("%d", int(FLAG_Z)),
	"SREG_N": fmt.Sprintf("%d", int(FLAG_N)),
	"SREG_V": fmt.Sprintf("%d", int(FLAG_V)),
	"SREG_S": fmt.Sprintf("%d", int(FLAG_S)),
	"SREG_H": fmt.Sprintf("%d", int(FLAG_H)),
	"SREG_T": fmt.Sprintf("%d", int(FLAG_T)),
	"SREG_I": fmt.Sprintf("%d", int(FLAG_I)),
}

// Cpu is the simulation context for the tiny8 processor.
type Cpu struct {
	Verbose    bool // Set to enable verbose logging.
	TraceLimit int  // Maximum retained trace records, zero for unbounded.

	Memory *memory.Memory // RAM and ROM, owned by the Cpu.

	RegTrace []RegEvent // Register changes.
	MemTrace []MemEvent // RAM writes.

	reg   [REGISTER_COUNT]uint8
	pc    int
	sp    int
	sreg  uint8
	steps int

	interrupts map[int]bool

	program *Program
	code    []linked
	trace   Trace
	running bool
}

// NewCpu creates a new CPU around a memory.
// A nil memory selects a default sized one.
func NewCpu(mem *memory.Memory) (cpu *Cpu) {
	if mem == nil {
		mem = memory.NewMemory(0, 0)
	}

	cpu = &Cpu{
		Memory:     mem,
		sp:         mem.RamSize() - 1,
		interrupts: map[int]bool{},
		program:    &Program{},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "   pc: %d\n", cpu.pc)
	fmt.Fprintf(&text, "   sp: %04x\n", cpu.sp)
	fmt.Fprintf(&text, " sreg: %v\n", SregString(cpu.sreg))
	for row := 0; row < REGISTER_COUNT; row += 8 {
		fmt.Fprintf(&text, "% 5s:", fmt.Sprintf("r%d", row))
		for n := row; n < row+8; n++ {
			fmt.Fprintf(&text, " %02x", cpu.reg[n])
		}
		text.WriteString("\n")
	}

	return text.String()
}

// Pc returns the program counter.
func (cpu *Cpu) Pc() int {
	return cpu.pc
}

// Sp returns the stack pointer.
func (cpu *Cpu) Sp() int {
	return cpu.sp
}

// Sreg returns the status register.
func (cpu *Cpu) Sreg() uint8 {
	return cpu.sreg
}

// Steps returns the number of instructions executed.
func (cpu *Cpu) Steps() int {
	return cpu.steps
}

// Running is true while the last Step executed an instruction.
func (cpu *Cpu) Running() bool {
	return cpu.running
}

// Halted is true when the program counter is outside of the program.
func (cpu *Cpu) Halted() bool {
	return cpu.pc < 0 || cpu.pc >= len(cpu.code)
}

// Program returns the loaded program.
func (cpu *Cpu) Program() *Program {
	return cpu.program
}

// Trace returns the step trace.
func (cpu *Cpu) Trace() *Trace {
	return &cpu.trace
}

// Registers returns a copy of the register file.
func (cpu *Cpu) Registers() [REGISTER_COUNT]uint8 {
	return cpu.reg
}

// Flag gets a status flag.
func (cpu *Cpu) Flag(fl Flag) bool {
	return cpu.sreg&fl.Mask() != 0
}

// SetFlag sets or clears a status flag.
func (cpu *Cpu) SetFlag(fl Flag, value bool) {
	if value {
		cpu.sreg |= fl.Mask()
	} else {
		cpu.sreg &^= fl.Mask()
	}
}

// ReadReg reads a register.
func (cpu *Cpu) ReadReg(r int) (value uint8, err error) {
	if r < 0 || r >= REGISTER_COUNT {
		err = ErrRegister(r)
		return
	}

	value = cpu.reg[r]
	return
}

// WriteReg writes the low byte of value to a register.
// Changes are logged to RegTrace.
func (cpu *Cpu) WriteReg(r int, value int) (err error) {
	if r < 0 || r >= REGISTER_COUNT {
		err = ErrRegister(r)
		return
	}

	newv := uint8(value & 0xff)
	if cpu.reg[r] != newv {
		cpu.reg[r] = newv
		cpu.RegTrace = append(cpu.RegTrace, RegEvent{Step: cpu.steps, Reg: r, Value: int(newv)})
	}

	return
}

// ReadRam reads a byte of RAM.
func (cpu *Cpu) ReadRam(addr int) (value uint8, err error) {
	return cpu.Memory.ReadRam(addr)
}

// WriteRam writes the low byte of value to RAM.
// Every write is logged to MemTrace.
func (cpu *Cpu) WriteRam(addr int, value int) (err error) {
	err = cpu.Memory.WriteRam(addr, value, cpu.steps)
	if err != nil {
		return
	}

	cpu.MemTrace = append(cpu.MemTrace, MemEvent{Step: cpu.steps, Addr: addr, Value: value & 0xff})
	return
}

// LoadProgram links and loads a program, and resets the program counter.
// Registers, memory, and flags are kept.
func (cpu *Cpu) LoadProgram(prog *Program) {
	if prog == nil {
		prog = &Program{}
	}

	cpu.program = prog
	cpu.code = prog.link()
	cpu.pc = 0

	if cpu.Verbose {
		log.Printf("cpu: loaded %d instructions, %d labels", len(prog.Instructions), len(prog.Labels))
	}
}

// EnableInterrupt registers an interrupt vector as enabled or disabled.
func (cpu *Cpu) EnableInterrupt(vector int, enabled bool) {
	cpu.interrupts[vector] = enabled
}

// TriggerInterrupt calls an enabled interrupt vector.
// Unregistered or disabled vectors are ignored.
func (cpu *Cpu) TriggerInterrupt(vector int) (err error) {
	if !cpu.interrupts[vector] {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: interrupt %d", vector)
	}

	err = cpu.pushReturn(cpu.pc + 1)
	if err != nil {
		return
	}

	cpu.pc = vector - 1
	return
}

// Step executes a single instruction.
//
// Returns false without error when the program counter is outside of the
// program. Handler failures are fatal and are returned as *ErrExecute; the
// program counter is left on the failing instruction.
func (cpu *Cpu) Step() (executed bool, err error) {
	if cpu.Halted() {
		cpu.running = false
		return
	}

	pc := cpu.pc
	ins := &cpu.code[pc]

	if cpu.Verbose {
		log.Printf("cpu: %03d: %v", pc, ins.text)
	}

	regs := cpu.reg
	mem := cpu.Memory.NonZeroRam()

	err = cpu.execute(ins)
	if err != nil {
		cpu.running = false
		err = &ErrExecute{Pc: pc, Text: ins.text, Err: err}
		return
	}

	cpu.steps++
	cpu.trace.Limit = cpu.TraceLimit
	cpu.trace.append(StepRecord{
		Step:   cpu.steps,
		Pc:     pc,
		Text:   ins.text,
		Regs:   regs,
		Mem:    mem,
		Sreg:   cpu.sreg,
		Sp:     cpu.sp,
		LineNo: ins.lineNo,
	})

	cpu.pc++
	cpu.running = true
	executed = true
	return
}

// Run steps until the program ends or maxSteps instructions have executed.
// Reaching the budget is not an error.
func (cpu *Cpu) Run(maxSteps int) (steps int, err error) {
	cpu.running = true
	for cpu.running && steps < maxSteps {
		var ok bool
		ok, err = cpu.Step()
		if err != nil || !ok {
			return
		}
		steps++
	}

	return
}

// execute dispatches a linked instruction to its handler.
func (cpu *Cpu) execute(ins *linked) error {
	if ins.op <= OP_INVALID || ins.op >= opCount || handlers[ins.op] == nil {
		return ErrInstruction(strings.ToUpper(ins.name))
	}

	return handlers[ins.op](cpu, ins.operands)
}
