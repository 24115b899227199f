package cpu

import (
	"slices"
)

// Program is an assembled instruction list and its label table.
// A Program is not modified by the Cpu once loaded.
type Program struct {
	Instructions []Instruction  // Instructions, indexed by program counter.
	Labels       map[string]int // Label to program counter index.
	Source       []string       // Optional source text, one entry per line.
}

// Debug locates the instruction and source text for a program counter.
type Debug struct {
	*Instruction
	Line string // Source text of the instruction, if known.
}

// Debug returns the debug information for a program counter.
// The Instruction is nil if pc is outside of the program.
func (prog *Program) Debug(pc int) (dbg Debug) {
	if pc < 0 || pc >= len(prog.Instructions) {
		return
	}

	dbg.Instruction = &prog.Instructions[pc]
	lineno := dbg.Instruction.LineNo
	if lineno > 0 && lineno <= len(prog.Source) {
		dbg.Line = prog.Source[lineno-1]
	}

	return
}

// LineNo returns the source line number for a program counter, or 0.
func (prog *Program) LineNo(pc int) int {
	if pc < 0 || pc >= len(prog.Instructions) {
		return 0
	}

	return prog.Instructions[pc].LineNo
}

// linked is an instruction decoded once at load time.
type linked struct {
	op       Mnemonic
	name     string
	operands []Operand
	text     string
	lineNo   int
}

// link decodes the mnemonics and resolves the label operands of a program.
//
// Unknown mnemonics decode to OP_INVALID and fail only when executed.
// Labels missing from the label table stay unlinked and fail only when
// the jump using them executes.
func (prog *Program) link() (code []linked) {
	code = make([]linked, len(prog.Instructions))

	for pc, ins := range prog.Instructions {
		op, ok := ParseMnemonic(ins.Mnemonic)
		if !ok {
			op = OP_INVALID
		}

		operands := slices.Clone(ins.Operands)
		for n := range operands {
			operand := &operands[n]
			if operand.Kind != OPERAND_LABEL {
				continue
			}
			target, ok := prog.Labels[operand.Label]
			if ok {
				operand.Value = target
				operand.Linked = true
			}
		}

		code[pc] = linked{
			op:       op,
			name:     ins.Mnemonic,
			operands: operands,
			text:     ins.String(),
			lineNo:   ins.LineNo,
		}
	}

	return
}
