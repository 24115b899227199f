package cpu

import (
	"fmt"
	"strings"
)

// Mnemonic is a decoded instruction operation.
type Mnemonic int

const (
	OP_INVALID Mnemonic = iota

	// Arithmetic
	OP_ADD
	OP_ADC
	OP_SUB
	OP_SUBI
	OP_SBC
	OP_SBCI
	OP_CP
	OP_CPC
	OP_CPI
	OP_INC
	OP_DEC
	OP_NEG
	OP_MUL
	OP_DIV
	OP_ADIW
	OP_SBIW

	// Logical
	OP_AND
	OP_OR
	OP_EOR
	OP_ANDI
	OP_ORI
	OP_EORI
	OP_COM
	OP_TST
	OP_CLR
	OP_SER
	OP_SWAP

	// Shift and rotate
	OP_LSL
	OP_LSR
	OP_ASR
	OP_ROL
	OP_ROR

	// Data movement
	OP_NOP
	OP_LDI
	OP_MOV
	OP_LD
	OP_ST
	OP_LDS
	OP_STS
	OP_LPM
	OP_IN
	OP_OUT
	OP_PUSH
	OP_POP
	OP_SBI
	OP_CBI
	OP_BST
	OP_BLD

	// Control transfer
	OP_JMP
	OP_RJMP
	OP_CALL
	OP_RCALL
	OP_RET
	OP_RETI
	OP_BRNE
	OP_BREQ
	OP_BRCS
	OP_BRCC
	OP_BRSH
	OP_BRLO
	OP_BRGE
	OP_BRLT
	OP_BRMI
	OP_BRPL
	OP_BRVS
	OP_BRVC
	OP_BRHS
	OP_BRHC
	OP_BRTS
	OP_BRTC
	OP_BRIE
	OP_BRID
	OP_CPSE
	OP_SBRS
	OP_SBRC
	OP_SBIS
	OP_SBIC

	// Status register
	OP_SEI
	OP_CLI
	OP_SEC
	OP_CLC
	OP_SEZ
	OP_CLZ
	OP_SEN
	OP_CLN
	OP_SEV
	OP_CLV
	OP_SES
	OP_CLS
	OP_SEH
	OP_CLH
	OP_SET
	OP_CLT

	opCount
)

var mnemonicNames = [opCount]string{
	OP_INVALID: "???",
	OP_ADD:     "ADD",
	OP_ADC:     "ADC",
	OP_SUB:     "SUB",
	OP_SUBI:    "SUBI",
	OP_SBC:     "SBC",
	OP_SBCI:    "SBCI",
	OP_CP:      "CP",
	OP_CPC:     "CPC",
	OP_CPI:     "CPI",
	OP_INC:     "INC",
	OP_DEC:     "DEC",
	OP_NEG:     "NEG",
	OP_MUL:     "MUL",
	OP_DIV:     "DIV",
	OP_ADIW:    "ADIW",
	OP_SBIW:    "SBIW",
	OP_AND:     "AND",
	OP_OR:      "OR",
	OP_EOR:     "EOR",
	OP_ANDI:    "ANDI",
	OP_ORI:     "ORI",
	OP_EORI:    "EORI",
	OP_COM:     "COM",
	OP_TST:     "TST",
	OP_CLR:     "CLR",
	OP_SER:     "SER",
	OP_SWAP:    "SWAP",
	OP_LSL:     "LSL",
	OP_LSR:     "LSR",
	OP_ASR:     "ASR",
	OP_ROL:     "ROL",
	OP_ROR:     "ROR",
	OP_NOP:     "NOP",
	OP_LDI:     "LDI",
	OP_MOV:     "MOV",
	OP_LD:      "LD",
	OP_ST:      "ST",
	OP_LDS:     "LDS",
	OP_STS:     "STS",
	OP_LPM:     "LPM",
	OP_IN:      "IN",
	OP_OUT:     "OUT",
	OP_PUSH:    "PUSH",
	OP_POP:     "POP",
	OP_SBI:     "SBI",
	OP_CBI:     "CBI",
	OP_BST:     "BST",
	OP_BLD:     "BLD",
	OP_JMP:     "JMP",
	OP_RJMP:    "RJMP",
	OP_CALL:    "CALL",
	OP_RCALL:   "RCALL",
	OP_RET:     "RET",
	OP_RETI:    "RETI",
	OP_BRNE:    "BRNE",
	OP_BREQ:    "BREQ",
	OP_BRCS:    "BRCS",
	OP_BRCC:    "BRCC",
	OP_BRSH:    "BRSH",
	OP_BRLO:    "BRLO",
	OP_BRGE:    "BRGE",
	OP_BRLT:    "BRLT",
	OP_BRMI:    "BRMI",
	OP_BRPL:    "BRPL",
	OP_BRVS:    "BRVS",
	OP_BRVC:    "BRVC",
	OP_BRHS:    "BRHS",
	OP_BRHC:    "BRHC",
	OP_BRTS:    "BRTS",
	OP_BRTC:    "BRTC",
	OP_BRIE:    "BRIE",
	OP_BRID:    "BRID",
	OP_CPSE:    "CPSE",
	OP_SBRS:    "SBRS",
	OP_SBRC:    "SBRC",
	OP_SBIS:    "SBIS",
	OP_SBIC:    "SBIC",
	OP_SEI:     "SEI",
	OP_CLI:     "CLI",
	OP_SEC:     "SEC",
	OP_CLC:     "CLC",
	OP_SEZ:     "SEZ",
	OP_CLZ:     "CLZ",
	OP_SEN:     "SEN",
	OP_CLN:     "CLN",
	OP_SEV:     "SEV",
	OP_CLV:     "CLV",
	OP_SES:     "SES",
	OP_CLS:     "CLS",
	OP_SEH:     "SEH",
	OP_CLH:     "CLH",
	OP_SET:     "SET",
	OP_CLT:     "CLT",
}

var mnemonicMap = func() map[string]Mnemonic {
	m := make(map[string]Mnemonic, len(mnemonicNames))
	for op, name := range mnemonicNames {
		if Mnemonic(op) == OP_INVALID {
			continue
		}
		m[name] = Mnemonic(op)
	}
	return m
}()

// String returns the upper case assembly name of the mnemonic.
func (op Mnemonic) String() string {
	if op < 0 || op >= opCount {
		return fmt.Sprintf("Mnemonic(%d)", int(op))
	}
	return mnemonicNames[op]
}

// ParseMnemonic looks up a mnemonic by name, ignoring case.
func ParseMnemonic(name string) (op Mnemonic, ok bool) {
	op, ok = mnemonicMap[strings.ToUpper(name)]
	return
}

// OperandKind discriminates the Operand variants.
type OperandKind int

const (
	OPERAND_REGISTER  = OperandKind(0) // Register index 0..31.
	OPERAND_IMMEDIATE = OperandKind(1) // Integer literal.
	OPERAND_LABEL     = OperandKind(2) // Symbolic label.
)

// Operand is a single instruction operand.
type Operand struct {
	Kind   OperandKind
	Value  int    // Register index, literal value, or linked label target.
	Label  string // Label name, for OPERAND_LABEL.
	Linked bool   // Set when a label has been resolved against the label table.
}

// Reg returns a register operand.
func Reg(n int) Operand {
	return Operand{Kind: OPERAND_REGISTER, Value: n}
}

// Imm returns an integer literal operand.
func Imm(value int) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// Sym returns an unresolved label operand.
func Sym(label string) Operand {
	return Operand{Kind: OPERAND_LABEL, Label: label}
}

// String renders the operand as it appears in assembly text.
func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REGISTER:
		return fmt.Sprintf("R%d", op.Value)
	case OPERAND_LABEL:
		return op.Label
	default:
		return fmt.Sprintf("%d", op.Value)
	}
}

// Instruction is a single program entry, as produced by an assembler.
type Instruction struct {
	Mnemonic string    // Mnemonic name, any case.
	Operands []Operand // Operands, in source order.
	LineNo   int       // 1-based source line number, 0 if unknown.
}

// Op returns a new Instruction from a mnemonic and its operands.
func Op(mnemonic string, operands ...Operand) Instruction {
	return Instruction{Mnemonic: mnemonic, Operands: operands}
}

// String renders the instruction as upper case mnemonic and operands.
func (ins Instruction) String() string {
	ops := make([]string, len(ins.Operands))
	for n, op := range ins.Operands {
		ops[n] = op.String()
	}

	return strings.TrimSpace(strings.ToUpper(ins.Mnemonic) + " " + strings.Join(ops, ", "))
}
