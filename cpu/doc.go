// Package cpu implements the LS-8 processor, its program image loader,
// and an assembler for its instruction set.
//
// The CPU has 256 bytes of flat memory shared by program and stack, eight
// registers (r0-r7, with r7 the stack pointer), a program counter, and the
// E, L and G flags set by CMP. Each instruction is an opcode byte followed
// by zero, one or two operand bytes; the two high bits of the opcode give
// the operand count.
//
// Programs are loaded from a text image holding one binary byte per line.
// The assembler produces the same image from mnemonic source.
package cpu
