package cpu

func (cpu *Cpu) opNop(operands []Operand) error {
	return expect(operands, 0)
}

// opLdi loads an immediate. Any register may be the destination.
func (cpu *Cpu) opLdi(operands []Operand) (err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	rd, err := regIndex(operands, 0)
	if err != nil {
		return
	}

	k, err := immValue(operands, 1)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, k)
}

func (cpu *Cpu) opMov(operands []Operand) (err error) {
	rd, _, b, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, b)
}

// opLd loads Rd from the RAM address held in Ra.
func (cpu *Cpu) opLd(operands []Operand) (err error) {
	rd, _, addr, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	value, err := cpu.ReadRam(addr)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, int(value))
}

// opSt stores Rr to the RAM address held in Ra.
func (cpu *Cpu) opSt(operands []Operand) (err error) {
	_, addr, value, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	return cpu.WriteRam(addr, value)
}

// regAddr decodes a register and a direct address, in either order.
func (cpu *Cpu) regAddr(operands []Operand, regFirst bool) (r, addr int, err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	ri, ai := 0, 1
	if !regFirst {
		ri, ai = 1, 0
	}

	r, err = regIndex(operands, ri)
	if err != nil {
		return
	}

	addr, err = immValue(operands, ai)
	return
}

func (cpu *Cpu) load(operands []Operand) (err error) {
	rd, addr, err := cpu.regAddr(operands, true)
	if err != nil {
		return
	}

	value, err := cpu.ReadRam(addr)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, int(value))
}

func (cpu *Cpu) store(operands []Operand) (err error) {
	rr, addr, err := cpu.regAddr(operands, false)
	if err != nil {
		return
	}

	return cpu.WriteRam(addr, int(cpu.reg[rr]))
}

// opIn reads the I/O port, which aliases RAM.
func (cpu *Cpu) opIn(operands []Operand) error { return cpu.load(operands) }

// opOut writes the I/O port, which aliases RAM.
func (cpu *Cpu) opOut(operands []Operand) error { return cpu.store(operands) }

func (cpu *Cpu) opLds(operands []Operand) error { return cpu.load(operands) }

func (cpu *Cpu) opSts(operands []Operand) error { return cpu.store(operands) }

// opLpm loads Rd from the ROM address held in Ra.
func (cpu *Cpu) opLpm(operands []Operand) (err error) {
	rd, _, addr, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	value, err := cpu.Memory.ReadRom(addr)
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, int(value))
}

// push writes to [sp] then decrements sp.
func (cpu *Cpu) push(value int) (err error) {
	err = cpu.WriteRam(cpu.sp, value)
	if err != nil {
		return
	}

	cpu.sp--
	return
}

// pop increments sp then reads [sp].
func (cpu *Cpu) pop() (value int, err error) {
	cpu.sp++
	v, err := cpu.ReadRam(cpu.sp)
	if err != nil {
		cpu.sp--
		return
	}

	value = int(v)
	return
}

func (cpu *Cpu) opPush(operands []Operand) (err error) {
	_, value, err := cpu.regOnly(operands)
	if err != nil {
		return
	}

	return cpu.push(value)
}

func (cpu *Cpu) opPop(operands []Operand) (err error) {
	err = expect(operands, 1)
	if err != nil {
		return
	}

	rd, err := regIndex(operands, 0)
	if err != nil {
		return
	}

	value, err := cpu.pop()
	if err != nil {
		return
	}

	return cpu.WriteReg(rd, value)
}

// ioBit decodes a RAM address and bit number.
func (cpu *Cpu) ioBit(operands []Operand) (addr, pos int, value uint8, err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	addr, err = immValue(operands, 0)
	if err != nil {
		return
	}

	pos, err = bitOf(operands, 1)
	if err != nil {
		return
	}

	value, err = cpu.ReadRam(addr)
	return
}

func (cpu *Cpu) opSbi(operands []Operand) (err error) {
	addr, pos, value, err := cpu.ioBit(operands)
	if err != nil {
		return
	}

	return cpu.WriteRam(addr, int(value)|(1<<pos))
}

func (cpu *Cpu) opCbi(operands []Operand) (err error) {
	addr, pos, value, err := cpu.ioBit(operands)
	if err != nil {
		return
	}

	return cpu.WriteRam(addr, int(value)&^(1<<pos))
}

// regBit decodes a register and bit number.
func (cpu *Cpu) regBit(operands []Operand) (rd, value, pos int, err error) {
	err = expect(operands, 2)
	if err != nil {
		return
	}

	rd, value, err = cpu.reg1(operands, 0)
	if err != nil {
		return
	}

	pos, err = bitOf(operands, 1)
	return
}

// opBst copies bit b of Rd into T.
func (cpu *Cpu) opBst(operands []Operand) (err error) {
	_, value, pos, err := cpu.regBit(operands)
	if err != nil {
		return
	}

	cpu.SetFlag(FLAG_T, (value>>pos)&1 != 0)
	return
}

// opBld copies T into bit b of Rd.
func (cpu *Cpu) opBld(operands []Operand) (err error) {
	rd, value, pos, err := cpu.regBit(operands)
	if err != nil {
		return
	}

	if cpu.Flag(FLAG_T) {
		value |= 1 << pos
	} else {
		value &^= 1 << pos
	}

	return cpu.WriteReg(rd, value)
}
