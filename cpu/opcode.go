package cpu

import (
	"fmt"
)

// Opcode is the first byte of an instruction.
//
// The two high bits hold the count of operand bytes that follow.
type Opcode uint8

const (
	OP_HLT  = Opcode(0b00000001) // HLT
	OP_PUSH = Opcode(0b01000101) // PUSH reg
	OP_POP  = Opcode(0b01000110) // POP reg
	OP_PRN  = Opcode(0b01000111) // PRN reg
	OP_JMP  = Opcode(0b01010100) // JMP reg
	OP_JEQ  = Opcode(0b01010101) // JEQ reg
	OP_JNE  = Opcode(0b01010110) // JNE reg
	OP_LDI  = Opcode(0b10000010) // LDI reg, imm
	OP_MUL  = Opcode(0b10100010) // MUL reg, reg
	OP_CMP  = Opcode(0b10100111) // CMP reg, reg
)

// Operand kinds.
const (
	ARG_NONE = iota
	ARG_REG
	ARG_IMM
)

// opcodeInfo describes an instruction for decode and disassembly.
type opcodeInfo struct {
	Mnemonic string
	Args     [2]int
	Jump     bool // Handler sets the PC itself.
}

var opcodeTable = [256]*opcodeInfo{
	OP_HLT:  {"HLT", [2]int{}, false},
	OP_PUSH: {"PUSH", [2]int{ARG_REG}, false},
	OP_POP:  {"POP", [2]int{ARG_REG}, false},
	OP_PRN:  {"PRN", [2]int{ARG_REG}, false},
	OP_JMP:  {"JMP", [2]int{ARG_REG}, true},
	OP_JEQ:  {"JEQ", [2]int{ARG_REG}, true},
	OP_JNE:  {"JNE", [2]int{ARG_REG}, true},
	OP_LDI:  {"LDI", [2]int{ARG_REG, ARG_IMM}, false},
	OP_MUL:  {"MUL", [2]int{ARG_REG, ARG_REG}, false},
	OP_CMP:  {"CMP", [2]int{ARG_REG, ARG_REG}, false},
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Width returns the size of the instruction in bytes.
func (op Opcode) Width() int {
	return 1 + op.Operands()
}

// Known returns true if the opcode has a handler.
func (op Opcode) Known() bool {
	return opcodeTable[op] != nil
}

// Jump returns true if the instruction is responsible for updating the PC.
func (op Opcode) Jump() bool {
	info := opcodeTable[op]
	return info != nil && info.Jump
}

func (op Opcode) String() string {
	info := opcodeTable[op]
	if info == nil {
		return fmt.Sprintf("Opcode(0b%08b)", uint8(op))
	}
	return info.Mnemonic
}

// LookupOpcode finds the opcode for a mnemonic.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	for n, info := range opcodeTable {
		if info != nil && info.Mnemonic == mnemonic {
			return Opcode(n), true
		}
	}
	return
}

// Code is a decoded instruction: the opcode and the two bytes that follow it.
//
// A and B are always fetched, even when the opcode does not use them.
type Code struct {
	Opcode Opcode
	A      byte
	B      byte
}

// Bytes returns the encoded instruction, trimmed to its width.
func (code Code) Bytes() []byte {
	data := []byte{byte(code.Opcode), code.A, code.B}
	return data[:min(code.Opcode.Width(), len(data))]
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	info := opcodeTable[code.Opcode]
	if info == nil {
		return code.Opcode.String()
	}

	out = info.Mnemonic
	args := [2]byte{code.A, code.B}
	for n := range code.Opcode.Operands() {
		sep := ","
		if n == 0 {
			sep = " "
		}
		switch info.Args[n] {
		case ARG_REG:
			out += fmt.Sprintf("%vR%d", sep, args[n])
		default:
			out += fmt.Sprintf("%v%d", sep, args[n])
		}
	}

	return
}
