package cpu

// setFlagsLogical sets the flags for a logical result.
// C, V and H are cleared, so S equals N.
func (cpu *Cpu) setFlagsLogical(result int) {
	n := result&0x80 != 0

	cpu.SetFlag(FLAG_C, false)
	cpu.SetFlag(FLAG_V, false)
	cpu.SetFlag(FLAG_H, false)
	cpu.SetFlag(FLAG_N, n)
	cpu.SetFlag(FLAG_S, n)
	cpu.SetFlag(FLAG_Z, result&0xff == 0)
}

func (cpu *Cpu) logicReg(operands []Operand, fn func(a, b int) int) (err error) {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	result := fn(a, b) & 0xff
	err = cpu.WriteReg(rd, result)
	if err != nil {
		return
	}
	cpu.setFlagsLogical(result)
	return
}

func (cpu *Cpu) logicImm(operands []Operand, fn func(a, b int) int) (err error) {
	rd, a, k, err := cpu.regImm(operands)
	if err != nil {
		return
	}

	result := fn(a, k) & 0xff
	err = cpu.WriteReg(rd, result)
	if err != nil {
		return
	}
	cpu.setFlagsLogical(result)
	return
}

func and(a, b int) int { return a & b }
func or(a, b int) int  { return a | b }
func eor(a, b int) int { return a ^ b }

func (cpu *Cpu) opAnd(operands []Operand) error  { return cpu.logicReg(operands, and) }
func (cpu *Cpu) opOr(operands []Operand) error   { return cpu.logicReg(operands, or) }
func (cpu *Cpu) opEor(operands []Operand) error  { return cpu.logicReg(operands, eor) }
func (cpu *Cpu) opAndi(operands []Operand) error { return cpu.logicImm(operands, and) }
func (cpu *Cpu) opOri(operands []Operand) error  { return cpu.logicImm(operands, or) }
func (cpu *Cpu) opEori(operands []Operand) error { return cpu.logicImm(operands, eor) }

// opCom is the one's complement. C is always set.
func (cpu *Cpu) opCom(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	result := ^a & 0xff
	err = cpu.WriteReg(rd, result)
	if err != nil {
		return
	}
	cpu.setFlagsLogical(result)
	cpu.SetFlag(FLAG_C, true)
	return
}

// opTst sets flags for Rd AND Rd, without storing.
func (cpu *Cpu) opTst(operands []Operand) (err error) {
	_, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	cpu.setFlagsLogical(a)
	return
}

// opClr is EOR Rd,Rd.
func (cpu *Cpu) opClr(operands []Operand) (err error) {
	rd, _, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	err = cpu.WriteReg(rd, 0)
	if err != nil {
		return
	}
	cpu.setFlagsLogical(0)
	return
}

func (cpu *Cpu) opSer(operands []Operand) (err error) {
	rd, _, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, 0xff)
}

func (cpu *Cpu) opSwap(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, ((a<<4)&0xf0)|((a>>4)&0x0f))
}

// shift stores a shifted result and sets the flags common to all shifts.
func (cpu *Cpu) shift(rd, result int, carry, n, v bool) (err error) {
	err = cpu.WriteReg(rd, result)
	if err != nil {
		return
	}

	cpu.SetFlag(FLAG_C, carry)
	cpu.SetFlag(FLAG_N, n)
	cpu.SetFlag(FLAG_V, v)
	cpu.SetFlag(FLAG_S, n != v)
	cpu.SetFlag(FLAG_Z, result&0xff == 0)
	cpu.SetFlag(FLAG_H, false)
	return
}

func (cpu *Cpu) opLsl(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	carry := a&0x80 != 0
	result := (a << 1) & 0xff
	n := result&0x80 != 0
	return cpu.shift(rd, result, carry, n, n != carry)
}

func (cpu *Cpu) opLsr(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	carry := a&1 != 0
	result := a >> 1
	return cpu.shift(rd, result, carry, false, carry)
}

func (cpu *Cpu) opAsr(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	carry := a&1 != 0
	result := (a >> 1) | (a & 0x80)
	n := result&0x80 != 0
	return cpu.shift(rd, result, carry, n, n != carry)
}

func (cpu *Cpu) opRol(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	carry := a&0x80 != 0
	result := ((a << 1) & 0xff) | bit(cpu.Flag(FLAG_C))
	return cpu.shift(rd, result, carry, result&0x80 != 0, false)
}

func (cpu *Cpu) opRor(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	carry := a&1 != 0
	result := (a >> 1) | (bit(cpu.Flag(FLAG_C)) << 7)
	return cpu.shift(rd, result, carry, result&0x80 != 0, false)
}
