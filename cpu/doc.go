// Package cpu implements the processor and assembler for the tiny8 system.
//
// The CPU is a simplified 8-bit AVR-like core: 32 8-bit registers (R0-R31),
// an instruction-indexed program counter, a descending stack at the top of
// RAM, and a status register (SREG) holding the I, T, H, S, V, N, Z and C
// flags. Programs are sequences of mnemonic plus operand instructions,
// linked once at load time and executed one Step at a time. Every executed
// instruction appends an immutable StepRecord to the trace.
//
// The assembler turns a small AVR flavoured assembly language into a
// Program, supporting labels, equates, macros, and compile-time expression
// evaluation.
package cpu
