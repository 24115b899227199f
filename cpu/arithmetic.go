package cpu

// setFlagsAdd sets H, S, V, N, Z and C for an 8-bit addition a+b+carry
// whose unmasked sum is raw.
func (cpu *Cpu) setFlagsAdd(a, b, carry, raw int) {
	result := raw & 0xff
	n := (result >> 7) & 1
	v := bit((^(a^b) & (a ^ result) & 0x80) != 0)

	cpu.SetFlag(FLAG_C, (raw>>8)&1 != 0)
	cpu.SetFlag(FLAG_H, (((a&0xf)+(b&0xf)+carry)>>4)&1 != 0)
	cpu.SetFlag(FLAG_N, n != 0)
	cpu.SetFlag(FLAG_V, v != 0)
	cpu.SetFlag(FLAG_S, n^v != 0)
	cpu.SetFlag(FLAG_Z, result == 0)
}

// setFlagsSub sets H, S, V, N, Z and C for an 8-bit subtraction
// a-b-borrow whose unbounded difference is raw.
func (cpu *Cpu) setFlagsSub(a, b, borrow, raw int) {
	result := raw & 0xff
	n := (result >> 7) & 1
	v := bit(((a ^ b) & (a ^ result) & 0x80) != 0)

	cpu.SetFlag(FLAG_C, raw < 0)
	cpu.SetFlag(FLAG_H, (a&0xf)-(b&0xf)-borrow < 0)
	cpu.SetFlag(FLAG_N, n != 0)
	cpu.SetFlag(FLAG_V, v != 0)
	cpu.SetFlag(FLAG_S, n^v != 0)
	cpu.SetFlag(FLAG_Z, result == 0)
}

// setFlagsWord sets S, V, N, Z and C for a 16-bit add or subtract.
// H is always cleared.
func (cpu *Cpu) setFlagsWord(a, k, raw int, subtract bool) {
	result := raw & 0xffff
	n := (result >> 15) & 1

	var v, c bool
	if subtract {
		v = ((a ^ k) & (a ^ result) & 0x8000) != 0
		c = raw < 0
	} else {
		v = (^(a^k) & (a ^ result) & 0x8000) != 0
		c = raw > 0xffff
	}

	cpu.SetFlag(FLAG_C, c)
	cpu.SetFlag(FLAG_H, false)
	cpu.SetFlag(FLAG_N, n != 0)
	cpu.SetFlag(FLAG_V, v)
	cpu.SetFlag(FLAG_S, (n != 0) != v)
	cpu.SetFlag(FLAG_Z, result == 0)
}

func (cpu *Cpu) add(operands []Operand, withCarry bool) (err error) {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	carry := 0
	if withCarry {
		carry = bit(cpu.Flag(FLAG_C))
	}

	raw := a + b + carry
	err = cpu.WriteReg(rd, raw)
	if err != nil {
		return
	}
	cpu.setFlagsAdd(a, b, carry, raw)
	return
}

func (cpu *Cpu) opAdd(operands []Operand) error {
	return cpu.add(operands, false)
}

func (cpu *Cpu) opAdc(operands []Operand) error {
	return cpu.add(operands, true)
}

// sub performs Rd - b - borrow, storing the result unless compareOnly.
func (cpu *Cpu) sub(rd, a, b int, withBorrow, compareOnly bool) (err error) {
	borrow := 0
	if withBorrow {
		borrow = bit(cpu.Flag(FLAG_C))
	}

	raw := a - b - borrow
	if !compareOnly {
		err = cpu.WriteReg(rd, raw)
		if err != nil {
			return
		}
	}
	cpu.setFlagsSub(a, b, borrow, raw)
	return
}

func (cpu *Cpu) opSub(operands []Operand) error {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, b, false, false)
}

func (cpu *Cpu) opSubi(operands []Operand) error {
	rd, a, k, err := cpu.regImm(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, k, false, false)
}

func (cpu *Cpu) opSbc(operands []Operand) error {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, b, true, false)
}

func (cpu *Cpu) opSbci(operands []Operand) error {
	rd, a, k, err := cpu.regImm(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, k, true, false)
}

func (cpu *Cpu) opCp(operands []Operand) error {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, b, false, true)
}

func (cpu *Cpu) opCpc(operands []Operand) error {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, b, true, true)
}

func (cpu *Cpu) opCpi(operands []Operand) error {
	rd, a, k, err := cpu.regImm(operands)
	if err != nil {
		return err
	}
	return cpu.sub(rd, a, k, false, true)
}

// incDec adds delta to Rd. Only V, N, S and Z are affected.
func (cpu *Cpu) incDec(operands []Operand, delta int, overflowAt int) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	result := (a + delta) & 0xff
	err = cpu.WriteReg(rd, result)
	if err != nil {
		return
	}

	n := result&0x80 != 0
	v := a == overflowAt
	cpu.SetFlag(FLAG_V, v)
	cpu.SetFlag(FLAG_N, n)
	cpu.SetFlag(FLAG_S, n != v)
	cpu.SetFlag(FLAG_Z, result == 0)
	return
}

func (cpu *Cpu) opInc(operands []Operand) error {
	return cpu.incDec(operands, 1, 0x7f)
}

func (cpu *Cpu) opDec(operands []Operand) error {
	return cpu.incDec(operands, -1, 0x80)
}

// opNeg is a subtraction from zero.
func (cpu *Cpu) opNeg(operands []Operand) (err error) {
	rd, a, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	raw := 0 - a
	err = cpu.WriteReg(rd, raw)
	if err != nil {
		return
	}
	cpu.setFlagsSub(0, a, 0, raw)
	return
}

// writePair writes the high byte of a register pair, dropping it past R31.
func (cpu *Cpu) writePair(rd int, value int) error {
	if rd+1 >= REGISTER_COUNT {
		return nil
	}
	return cpu.WriteReg(rd+1, value)
}

// readPair reads the high byte of a register pair, as zero past R31.
func (cpu *Cpu) readPair(rd int) int {
	if rd+1 >= REGISTER_COUNT {
		return 0
	}
	return int(cpu.reg[rd+1])
}

// opMul is an unsigned 8x8 multiply into Rd (low) and Rd+1 (high).
func (cpu *Cpu) opMul(operands []Operand) (err error) {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	product := a * b
	err = cpu.WriteReg(rd, product&0xff)
	if err != nil {
		return
	}
	err = cpu.writePair(rd, (product>>8)&0xff)
	if err != nil {
		return
	}

	cpu.SetFlag(FLAG_Z, product == 0)
	cpu.SetFlag(FLAG_C, (product>>8)&0xff != 0)
	cpu.SetFlag(FLAG_H, false)
	return
}

// opDiv is an unsigned divide, quotient into Rd and remainder into Rd+1.
// Division by zero zeroes Rd and sets C and Z.
func (cpu *Cpu) opDiv(operands []Operand) (err error) {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	if b == 0 {
		err = cpu.WriteReg(rd, 0)
		if err != nil {
			return
		}
		cpu.SetFlag(FLAG_C, true)
		cpu.SetFlag(FLAG_Z, true)
		return
	}

	quotient := a / b
	remainder := a % b
	err = cpu.WriteReg(rd, quotient)
	if err != nil {
		return
	}
	err = cpu.writePair(rd, remainder)
	if err != nil {
		return
	}

	cpu.SetFlag(FLAG_C, false)
	cpu.SetFlag(FLAG_Z, quotient == 0)
	return
}

// word decodes a register pair and 16-bit immediate instruction.
func (cpu *Cpu) word(operands []Operand) (rd, value, k int, err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	rd, lo, err := cpu.reg1(operands, 0)
	if err != nil {
		return
	}

	k, err = immValue(operands, 1)
	if err != nil {
		return
	}

	value = (cpu.readPair(rd) << 8) | lo
	k &= 0xffff
	return
}

// storeWord writes a 16-bit value to a register pair.
func (cpu *Cpu) storeWord(rd, value int) (err error) {
	err = cpu.WriteReg(rd, value&0xff)
	if err != nil {
		return
	}
	return cpu.writePair(rd, (value>>8)&0xff)
}

func (cpu *Cpu) opAdiw(operands []Operand) (err error) {
	rd, value, k, err := cpu.word(operands)
	if err != nil {
		return
	}

	raw := value + k
	err = cpu.storeWord(rd, raw)
	if err != nil {
		return
	}
	cpu.setFlagsWord(value, k, raw, false)
	return
}

func (cpu *Cpu) opSbiw(operands []Operand) (err error) {
	rd, value, k, err := cpu.word(operands)
	if err != nil {
		return
	}

	raw := value - k
	err = cpu.storeWord(rd, raw)
	if err != nil {
		return
	}
	cpu.setFlagsWord(value, k, raw, true)
	return
}
