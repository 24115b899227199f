package cpu

// handler executes an instruction on decoded operands.
type handler func(cpu *Cpu, operands []Operand) error

var handlers = [opCount]handler{
	OP_ADD:  (*Cpu).opAdd,
	OP_ADC:  (*Cpu).opAdc,
	OP_SUB:  (*Cpu).opSub,
	OP_SUBI: (*Cpu).opSubi,
	OP_SBC:  (*Cpu).opSbc,
	OP_SBCI: (*Cpu).opSbci,
	OP_CP:   (*Cpu).opCp,
	OP_CPC:  (*Cpu).opCpc,
	OP_CPI:  (*Cpu).opCpi,
	OP_INC:  (*Cpu).opInc,
	OP_DEC:  (*Cpu).opDec,
	OP_NEG:  (*Cpu).opNeg,
	OP_MUL:  (*Cpu).opMul,
	OP_DIV:  (*Cpu).opDiv,
	OP_ADIW: (*Cpu).opAdiw,
	OP_SBIW: (*Cpu).opSbiw,

	OP_AND:  (*Cpu).opAnd,
	OP_OR:   (*Cpu).opOr,
	OP_EOR:  (*Cpu).opEor,
	OP_ANDI: (*Cpu).opAndi,
	OP_ORI:  (*Cpu).opOri,
	OP_EORI: (*Cpu).opEori,
	OP_COM:  (*Cpu).opCom,
	OP_TST:  (*Cpu).opTst,
	OP_CLR:  (*Cpu).opClr,
	OP_SER:  (*Cpu).opSer,
	OP_SWAP: (*Cpu).opSwap,

	OP_LSL: (*Cpu).opLsl,
	OP_LSR: (*Cpu).opLsr,
	OP_ASR: (*Cpu).opAsr,
	OP_ROL: (*Cpu).opRol,
	OP_ROR: (*Cpu).opRor,

	OP_NOP:  (*Cpu).opNop,
	OP_LDI:  (*Cpu).opLdi,
	OP_MOV:  (*Cpu).opMov,
	OP_LD:   (*Cpu).opLd,
	OP_ST:   (*Cpu).opSt,
	OP_LDS:  (*Cpu).opLds,
	OP_STS:  (*Cpu).opSts,
	OP_LPM:  (*Cpu).opLpm,
	OP_IN:   (*Cpu).opIn,
	OP_OUT:  (*Cpu).opOut,
	OP_PUSH: (*Cpu).opPush,
	OP_POP:  (*Cpu).opPop,
	OP_SBI:  (*Cpu).opSbi,
	OP_CBI:  (*Cpu).opCbi,
	OP_BST:  (*Cpu).opBst,
	OP_BLD:  (*Cpu).opBld,

	OP_JMP:   (*Cpu).opJmp,
	OP_RJMP:  (*Cpu).opRjmp,
	OP_CALL:  (*Cpu).opCall,
	OP_RCALL: (*Cpu).opRcall,
	OP_RET:   (*Cpu).opRet,
	OP_RETI:  (*Cpu).opReti,
	OP_BRNE:  branchIf(FLAG_Z, false),
	OP_BREQ:  branchIf(FLAG_Z, true),
	OP_BRCS:  branchIf(FLAG_C, true),
	OP_BRCC:  branchIf(FLAG_C, false),
	OP_BRSH:  branchIf(FLAG_C, false),
	OP_BRLO:  branchIf(FLAG_C, true),
	OP_BRGE:  branchIf(FLAG_S, false),
	OP_BRLT:  branchIf(FLAG_S, true),
	OP_BRMI:  branchIf(FLAG_N, true),
	OP_BRPL:  branchIf(FLAG_N, false),
	OP_BRVS:  branchIf(FLAG_V, true),
	OP_BRVC:  branchIf(FLAG_V, false),
	OP_BRHS:  branchIf(FLAG_H, true),
	OP_BRHC:  branchIf(FLAG_H, false),
	OP_BRTS:  branchIf(FLAG_T, true),
	OP_BRTC:  branchIf(FLAG_T, false),
	OP_BRIE:  branchIf(FLAG_I, true),
	OP_BRID:  branchIf(FLAG_I, false),
	OP_CPSE:  (*Cpu).opCpse,
	OP_SBRS:  (*Cpu).opSbrs,
	OP_SBRC:  (*Cpu).opSbrc,
	OP_SBIS:  (*Cpu).opSbis,
	OP_SBIC:  (*Cpu).opSbic,

	OP_SEI: flagTo(FLAG_I, true),
	OP_CLI: flagTo(FLAG_I, false),
	OP_SEC: flagTo(FLAG_C, true),
	OP_CLC: flagTo(FLAG_C, false),
	OP_SEZ: flagTo(FLAG_Z, true),
	OP_CLZ: flagTo(FLAG_Z, false),
	OP_SEN: flagTo(FLAG_N, true),
	OP_CLN: flagTo(FLAG_N, false),
	OP_SEV: flagTo(FLAG_V, true),
	OP_CLV: flagTo(FLAG_V, false),
	OP_SES: flagTo(FLAG_S, true),
	OP_CLS: flagTo(FLAG_S, false),
	OP_SEH: flagTo(FLAG_H, true),
	OP_CLH: flagTo(FLAG_H, false),
	OP_SET: flagTo(FLAG_T, true),
	OP_CLT: flagTo(FLAG_T, false),
}

// expect checks the operand count.
func expect(operands []Operand, count int) error {
	if len(operands) != count {
		return ErrOperandCount{Want: count, Got: len(operands)}
	}
	return nil
}

// regIndex decodes a register operand. Plain integers are accepted as
// register indexes.
func regIndex(operands []Operand, n int) (r int, err error) {
	op := operands[n]
	if op.Kind == OPERAND_LABEL {
		err = ErrOperandKind{Index: n, Operand: op}
		return
	}

	r = op.Value
	if r < 0 || r >= REGISTER_COUNT {
		err = ErrRegister(r)
	}
	return
}

// immValue decodes an integer literal operand.
func immValue(operands []Operand, n int) (value int, err error) {
	op := operands[n]
	if op.Kind != OPERAND_IMMEDIATE {
		err = ErrOperandKind{Index: n, Operand: op}
		return
	}

	value = op.Value
	return
}

// reg1 reads the register named by operand n.
func (cpu *Cpu) reg1(operands []Operand, n int) (r int, value int, err error) {
	r, err = regIndex(operands, n)
	if err != nil {
		return
	}

	value = int(cpu.reg[r])
	return
}

// regReg decodes and reads a two register instruction.
func (cpu *Cpu) regReg(operands []Operand) (rd, a, b int, err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	rd, a, err = cpu.reg1(operands, 0)
	if err != nil {
		return
	}

	_, b, err = cpu.reg1(operands, 1)
	return
}

// regImm decodes and reads a register and immediate instruction.
// The immediate is masked to a byte.
func (cpu *Cpu) regImm(operands []Operand) (rd, a, k int, err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	rd, a, err = cpu.reg1(operands, 0)
	if err != nil {
		return
	}

	k, err = immValue(operands, 1)
	k &= 0xff
	return
}

// regOnly decodes and reads a single register instruction.
func (cpu *Cpu) regOnly(operands []Operand) (rd, a int, err error) {
	err = expect(operands, 1)
	if err != nil {
		return
	}

	rd, a, err = cpu.reg1(operands, 0)
	return
}

// bitOf decodes a bit number operand, masked to 0..7.
func bitOf(operands []Operand, n int) (pos int, err error) {
	pos, err = immValue(operands, n)
	pos &= 7
	return
}

// target resolves a jump target operand to a program counter index.
func (cpu *Cpu) target(operands []Operand, n int) (pc int, err error) {
	op := operands[n]
	switch op.Kind {
	case OPERAND_LABEL:
		if op.Linked {
			pc = op.Value
			return
		}
		var ok bool
		pc, ok = cpu.program.Labels[op.Label]
		if !ok {
			err = ErrLabelMissing(op.Label)
		}
	case OPERAND_IMMEDIATE:
		pc = op.Value
	default:
		err = ErrOperandKind{Index: n, Operand: op}
	}

	return
}

// flagTo returns a handler forcing a flag.
func flagTo(fl Flag, value bool) handler {
	return func(cpu *Cpu, operands []Operand) (err error) {
		err = expect(operands, 0)
		if err != nil {
			return
		}
		cpu.SetFlag(fl, value)
		return
	}
}

// bit converts a bool to 0 or 1.
func bit(value bool) int {
	if value {
		return 1
	}
	return 0
}
