package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/tiny8/cpu"
	"github.com/ezrec/tiny8/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0, 0)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(memory.DEFAULT_RAM_SIZE, emu.Cpu.Memory.RamSize())
	assert.Equal(memory.DEFAULT_ROM_SIZE, emu.Cpu.Memory.RomSize())
	assert.Equal(0, emu.LineNo())

	done, err := emu.Step()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(256, 64)

	defines := map[string]string{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}

	assert.Equal("255", defines["RAMEND"])
	assert.Equal("256", defines["RAMSIZE"])
	assert.Equal("64", defines["ROMSIZE"])
	assert.Equal("0", defines["SREG_C"])
	assert.Equal("7", defines["SREG_I"])
	assert.Equal("32", defines["REGISTER_COUNT"])

	// Early stop.
	count := 0
	for range emu.Defines() {
		count++
		break
	}
	assert.Equal(1, count)
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	prog, err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	for pc, ins := range prog.Instructions {
		here := program[ins.LineNo-1]
		assert.Equal(pc, emu.Cpu.Pc(), here)
		assert.Equal(ins.LineNo, emu.LineNo(), here)

		done, err := emu.Step()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.False(done, here)
	}

	done, err := emu.Step()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorAssemble(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(256, 0)
	doRunSingle(emu, []string{
		"; fill the top of ram",
		"ldi r16, RAMEND",
		"ldi r17, $(RAMSIZE // 2)",
		"sts RAMEND, r17",
		"",
		"ldi r18, SREG_T",
	}, t)

	regs := emu.Cpu.Registers()
	assert.Equal(uint8(255), regs[16])
	assert.Equal(uint8(128), regs[17])

	value, err := emu.Cpu.ReadRam(255)
	assert.NoError(err)
	assert.Equal(uint8(128), value)
	assert.Equal(uint8(cpu.FLAG_T), regs[18])

	assert.Equal(4, emu.Cpu.Steps())
}

func TestEmulatorPredefine(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(256, 0)
	emu.Predefine("COUNT", "0x21")
	emu.Predefine("RAMEND", "0x80")

	_, err := emu.Assemble(strings.NewReader("ldi r1, COUNT\nsts RAMEND, r1\n"))
	require.NoError(t, err)

	_, err = emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.NoError(err)

	value, err := emu.Cpu.ReadRam(0x80)
	assert.NoError(err)
	assert.Equal(uint8(0x21), value)
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0, 0)

	_, err := emu.Assemble(strings.NewReader("nop\nfrob r1\n"))
	assert.ErrorIs(err, cpu.ErrUnimplemented)

	var syntax *cpu.ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(2, syntax.LineNo)

	// The previous program is kept.
	assert.Equal(0, len(emu.Program.Instructions))
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0, 0)
	_, err := emu.Assemble(strings.NewReader(strings.Join([]string{
		"    ldi r16, 0",
		"    ldi r17, 10",
		"top:",
		"    add r16, r17",
		"    dec r17",
		"    brne top",
	}, "\n")))
	require.NoError(t, err)

	steps, err := emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.NoError(err)
	assert.Equal(2+3*10, steps)
	assert.Equal(uint8(55), emu.Cpu.Registers()[16])
	assert.True(emu.Cpu.Halted())

	// Budget exhaustion is not an error.
	emu.Reset()
	steps, err = emu.Run(5)
	assert.NoError(err)
	assert.Equal(5, steps)
	assert.Equal(4, emu.LineNo())

	steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(0, steps)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0, 0)
	_, err := emu.Assemble(strings.NewReader(strings.Join([]string{
		"ldi r16, 1",
		"",
		"ldi r40, 1",
		"ldi r17, 1",
	}, "\n")))
	require.NoError(t, err)

	steps, err := emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.Equal(1, steps)
	assert.ErrorIs(err, cpu.ErrRegisterRange)

	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal(3, runtime.LineNo)

	var exec *cpu.ErrExecute
	assert.True(errors.As(err, &exec))
	assert.Equal(1, exec.Pc)

	// Halted on the failing instruction.
	assert.Equal(1, emu.Cpu.Pc())
	assert.False(emu.Cpu.Running())
}

func TestEmulatorProgress(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0, 0)
	emu.ProgressInterval = 10

	var seen []int
	emu.Progress = func(steps int) {
		seen = append(seen, steps)
	}

	_, err := emu.Assemble(strings.NewReader(strings.Join([]string{
		"    ldi r16, 20",
		"loop:",
		"    dec r16",
		"    brne loop",
	}, "\n")))
	require.NoError(t, err)

	steps, err := emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.NoError(err)
	assert.Equal(41, steps)
	assert.Equal([]int{10, 20, 30, 40}, seen)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(128, 0)
	emu.Cpu.TraceLimit = 2

	_, err := emu.Assemble(strings.NewReader("ldi r1, 9\npush r1\n"))
	require.NoError(t, err)

	_, err = emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.NoError(err)
	assert.Equal(126, emu.Cpu.Sp())
	assert.Equal(2, emu.Cpu.Steps())

	emu.Reset()
	assert.Equal(127, emu.Cpu.Sp())
	assert.Equal(0, emu.Cpu.Steps())
	assert.Equal(uint8(0), emu.Cpu.Registers()[1])
	assert.Equal(2, emu.Cpu.TraceLimit)
	assert.Equal(128, emu.Cpu.Memory.RamSize())
	assert.Equal(1, emu.LineNo())

	// The program survives the reset.
	_, err = emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.NoError(err)
	assert.Equal(uint8(9), emu.Cpu.Registers()[1])
}

func TestEmulatorResetKeepsRom(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0, 8)
	emu.Cpu.Memory.Verbose = true
	require.NoError(t, emu.Cpu.Memory.LoadRomImage(bytes.NewReader([]byte{0x11, 0x22, 0x33})))

	_, err := emu.Assemble(strings.NewReader("ldi r1, 2\nlpm r0, r1\n"))
	require.NoError(t, err)

	emu.Reset()
	assert.True(emu.Cpu.Memory.Verbose)
	assert.Equal(8, emu.Cpu.Memory.RomSize())
	assert.Equal([]uint8{0x11, 0x22, 0x33, 0, 0, 0, 0, 0}, emu.Cpu.Memory.SnapshotRom())

	_, err = emu.Run(cpu.DEFAULT_MAX_STEPS)
	assert.NoError(err)
	assert.Equal(uint8(0x33), emu.Cpu.Registers()[0])
}
