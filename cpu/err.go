package cpu

import (
	"errors"

	"github.com/ezrec/tiny8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrRegisterRange  = errors.New(f("register out of range"))
	ErrUnimplemented  = errors.New(f("instruction not implemented"))
	ErrUndefinedLabel = errors.New(f("label undefined"))
	ErrOperand        = errors.New(f("operand invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelSyntax     = errors.New(f("label syntax"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
)

// ErrRegister is an out of range register index.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d out of range", int(er))
}

func (er ErrRegister) Is(err error) bool {
	return err == ErrRegisterRange
}

// ErrInstruction is an unrecognized mnemonic.
type ErrInstruction string

func (ei ErrInstruction) Error() string {
	return f("instruction %v not implemented", string(ei))
}

func (ei ErrInstruction) Is(err error) bool {
	return err == ErrUnimplemented
}

// ErrLabelMissing is a label absent from the label table.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Is(err error) bool {
	return err == ErrUndefinedLabel
}

// ErrOperandCount is an instruction with the wrong number of operands.
type ErrOperandCount struct {
	Want int
	Got  int
}

func (err ErrOperandCount) Error() string {
	return f("expected %d operands, got %d", err.Want, err.Got)
}

func (err ErrOperandCount) Is(target error) bool {
	return target == ErrOperand
}

// ErrOperandKind is an operand of the wrong kind.
type ErrOperandKind struct {
	Index   int
	Operand Operand
}

func (err ErrOperandKind) Error() string {
	return f("operand %d '%v' has invalid kind", err.Index+1, err.Operand.String())
}

func (err ErrOperandKind) Is(target error) bool {
	return target == ErrOperand
}

// ErrExecute locates a failed instruction.
type ErrExecute struct {
	Pc   int
	Text string
	Err  error
}

func (err *ErrExecute) Error() string {
	return f("pc %d '%v' %v", err.Pc, err.Text, err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
