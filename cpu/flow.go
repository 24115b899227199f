package cpu

import (
	"github.com/ezrec/tiny8/memory"
)

// jump sets the program counter so that the post-step increment lands on
// target.
func (cpu *Cpu) jump(target int) {
	cpu.pc = target - 1
}

// skip skips the next instruction.
func (cpu *Cpu) skip() {
	cpu.pc++
}

// pushReturn pushes a return address, high byte first.
// Nothing is written unless both bytes fit on the stack.
func (cpu *Cpu) pushReturn(ret int) (err error) {
	for _, addr := range []int{cpu.sp, cpu.sp - 1} {
		if addr < 0 || addr >= cpu.Memory.RamSize() {
			err = memory.ErrAddress{Space: "ram", Addr: addr}
			return
		}
	}

	err = cpu.push((ret >> 8) & 0xff)
	if err != nil {
		return
	}

	return cpu.push(ret & 0xff)
}

// popReturn pops a return address, low byte first.
// On failure sp is left unchanged.
func (cpu *Cpu) popReturn() (ret int, err error) {
	sp := cpu.sp
	defer func() {
		if err != nil {
			cpu.sp = sp
		}
	}()

	lo, err := cpu.pop()
	if err != nil {
		return
	}

	hi, err := cpu.pop()
	if err != nil {
		return
	}

	ret = (hi << 8) | lo
	return
}

func (cpu *Cpu) opJmp(operands []Operand) (err error) {
	err = expect(operands, 1)
	if err != nil {
		return
	}

	target, err := cpu.target(operands, 0)
	if err != nil {
		return
	}

	cpu.jump(target)
	return
}

// relative resolves an RJMP/RCALL operand. Integers are offsets from the
// current program counter; labels are absolute.
func (cpu *Cpu) relative(operands []Operand) (target int, err error) {
	err = expect(operands, 1)
	if err != nil {
		return
	}

	if operands[0].Kind == OPERAND_IMMEDIATE {
		// pc + offset, then the post-step increment.
		target = cpu.pc + operands[0].Value + 1
		return
	}

	return cpu.target(operands, 0)
}

func (cpu *Cpu) opRjmp(operands []Operand) (err error) {
	target, err := cpu.relative(operands)
	if err != nil {
		return
	}

	cpu.jump(target)
	return
}

func (cpu *Cpu) call(target int) (err error) {
	err = cpu.pushReturn(cpu.pc + 1)
	if err != nil {
		return
	}

	cpu.jump(target)
	return
}

func (cpu *Cpu) opCall(operands []Operand) (err error) {
	err = expect(operands, 1)
	if err != nil {
		return
	}

	target, err := cpu.target(operands, 0)
	if err != nil {
		return
	}

	return cpu.call(target)
}

func (cpu *Cpu) opRcall(operands []Operand) (err error) {
	target, err := cpu.relative(operands)
	if err != nil {
		return
	}

	return cpu.call(target)
}

func (cpu *Cpu) opRet(operands []Operand) (err error) {
	err = expect(operands, 0)
	if err != nil {
		return
	}

	ret, err := cpu.popReturn()
	if err != nil {
		return
	}

	cpu.jump(ret)
	return
}

// opReti returns and enables interrupts.
func (cpu *Cpu) opReti(operands []Operand) (err error) {
	err = cpu.opRet(operands)
	if err != nil {
		return
	}

	cpu.SetFlag(FLAG_I, true)
	return
}

// branchIf returns a handler jumping when a flag has the given state.
func branchIf(fl Flag, state bool) handler {
	return func(cpu *Cpu, operands []Operand) (err error) {
		err = expect(operands, 1)
		if err != nil {
			return
		}

		if cpu.Flag(fl) != state {
			return
		}

		target, err := cpu.target(operands, 0)
		if err != nil {
			return
		}

		cpu.jump(target)
		return
	}
}

// opCpse compares two registers as CP and skips the next instruction if
// they are equal.
func (cpu *Cpu) opCpse(operands []Operand) (err error) {
	rd, a, b, err := cpu.regReg(operands)
	if err != nil {
		return
	}

	err = cpu.sub(rd, a, b, false, true)
	if err != nil {
		return
	}

	if a == b {
		cpu.skip()
	}
	return
}

func (cpu *Cpu) skipRegBit(operands []Operand, set bool) (err error) {
	_, value, pos, err := cpu.regBit(operands)
	if err != nil {
		return
	}

	if ((value>>pos)&1 != 0) == set {
		cpu.skip()
	}
	return
}

func (cpu *Cpu) skipIoBit(operands []Operand, set bool) (err error) {
	_, pos, value, err := cpu.ioBit(operands)
	if err != nil {
		return
	}

	if ((value>>pos)&1 != 0) == set {
		cpu.skip()
	}
	return
}

func (cpu *Cpu) opSbrs(operands []Operand) error { return cpu.skipRegBit(operands, true) }
func (cpu *Cpu) opSbrc(operands []Operand) error { return cpu.skipRegBit(operands, false) }
func (cpu *Cpu) opSbis(operands []Operand) error { return cpu.skipIoBit(operands, true) }
func (cpu *Cpu) opSbic(operands []Operand) error { return cpu.skipIoBit(operands, false) }
