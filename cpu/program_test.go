package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Instructions: []Instruction{
			{Mnemonic: "ldi", Operands: []Operand{Reg(0), Imm(0x10)}, LineNo: 1},
			{Mnemonic: "ldi", Operands: []Operand{Reg(1), Imm(0x20)}, LineNo: 2},
			{Mnemonic: "add", Operands: []Operand{Reg(0), Reg(1)}, LineNo: 4},
		},
		Source: []string{
			"ldi r0, 0x10",
			"ldi r1, 0x20",
			"; add them",
			"add r0, r1",
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Instruction)
	assert.Equal(1, dbg.LineNo)
	assert.Equal("ldi r0, 0x10", dbg.Line)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Instruction)
	assert.Equal(4, dbg.LineNo)
	assert.Equal("add r0, r1", dbg.Line)

	assert.Equal(2, prog.LineNo(1))
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Instructions: []Instruction{
			{Mnemonic: "ldi", Operands: []Operand{Reg(0), Imm(0x10)}, LineNo: 1},
		},
	}

	dbg := prog.Debug(10)
	assert.Nil(dbg.Instruction)
	assert.Equal("", dbg.Line)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Instruction)

	// No source text.
	dbg = prog.Debug(0)
	assert.NotNil(dbg.Instruction)
	assert.Equal("", dbg.Line)

	assert.Equal(0, prog.LineNo(1))
}

func TestProgram_Link(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Instructions: []Instruction{
			Op("ldi", Reg(16), Imm(1)),
			Op("Brne", Sym("top")),
			Op("jmp", Sym("missing")),
			Op("frob"),
		},
		Labels: map[string]int{"top": 0},
	}

	code := prog.link()
	assert.Equal(4, len(code))

	assert.Equal(OP_LDI, code[0].op)
	assert.Equal("LDI R16, 1", code[0].text)

	assert.Equal(OP_BRNE, code[1].op)
	assert.True(code[1].operands[0].Linked)
	assert.Equal(0, code[1].operands[0].Value)

	assert.Equal(OP_JMP, code[2].op)
	assert.False(code[2].operands[0].Linked)

	assert.Equal(OP_INVALID, code[3].op)
	assert.Equal("frob", code[3].name)

	// Linking never modifies the program.
	assert.False(prog.Instructions[1].Operands[0].Linked)
	assert.Equal(0, prog.Instructions[1].Operands[0].Value)
}

func TestOpcode(t *testing.T) {
	assert := assert.New(t)

	for op := OP_INVALID + 1; op < opCount; op++ {
		name := op.String()
		assert.NotEmpty(name)

		parsed, ok := ParseMnemonic(name)
		assert.True(ok, name)
		assert.Equal(op, parsed, name)
	}

	op, ok := ParseMnemonic("rEtI")
	assert.True(ok)
	assert.Equal(OP_RETI, op)

	_, ok = ParseMnemonic("frob")
	assert.False(ok)

	_, ok = ParseMnemonic("")
	assert.False(ok)

	assert.Equal("Mnemonic(-1)", Mnemonic(-1).String())
}

func TestOperand(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("R7", Reg(7).String())
	assert.Equal("-3", Imm(-3).String())
	assert.Equal("loop", Sym("loop").String())

	assert.Equal("NOP", Op("nop").String())
	assert.Equal("STS 256, R1", Op("sts", Imm(256), Reg(1)).String())
	assert.Equal("RJMP loop", Op("Rjmp", Sym("loop")).String())
}

func TestFlag(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("C", FLAG_C.String())
	assert.Equal("I", FLAG_I.String())
	assert.Equal(uint8(0x80), FLAG_I.Mask())
	assert.Equal(uint8(0x01), FLAG_C.Mask())

	assert.Equal("--------", SregString(0))
	assert.Equal("ITHSVNZC", SregString(0xff))
	assert.Equal("I------C", SregString(0x81))
	assert.Equal("---S-N--", SregString(FLAG_S.Mask()|FLAG_N.Mask()))
}
