package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op       Opcode
		name     string
		operands int
		jump     bool
	}){
		{OP_LDI, "LDI", 2, false},
		{OP_PRN, "PRN", 1, false},
		{OP_HLT, "HLT", 0, false},
		{OP_MUL, "MUL", 2, false},
		{OP_PUSH, "PUSH", 1, false},
		{OP_POP, "POP", 1, false},
		{OP_CMP, "CMP", 2, false},
		{OP_JMP, "JMP", 1, true},
		{OP_JEQ, "JEQ", 1, true},
		{OP_JNE, "JNE", 1, true},
	}

	known := 0
	for n := range 256 {
		if Opcode(n).Known() {
			known++
		}
	}
	assert.Equal(len(table), known)

	for _, entry := range table {
		assert.True(entry.op.Known(), entry.name)
		assert.Equal(entry.name, entry.op.String())
		assert.Equal(entry.operands, entry.op.Operands(), entry.name)
		assert.Equal(entry.operands+1, entry.op.Width(), entry.name)
		assert.Equal(entry.jump, entry.op.Jump(), entry.name)

		// Operand kinds agree with the encoded operand count.
		info := opcodeTable[entry.op]
		for n := range 2 {
			assert.Equal(n < entry.operands, info.Args[n] != ARG_NONE, entry.name)
		}

		op, ok := LookupOpcode(entry.name)
		assert.True(ok)
		assert.Equal(entry.op, op)
	}

	_, ok := LookupOpcode("ADD")
	assert.False(ok)
	assert.Equal("Opcode(0b11111111)", Opcode(0xff).String())
	assert.False(Opcode(0xff).Jump())
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{Code{OP_LDI, 0, 42}, "LDI R0,42"},
		{Code{OP_MUL, 1, 2}, "MUL R1,R2"},
		{Code{OP_PRN, 3, 9}, "PRN R3"},
		{Code{OP_HLT, 3, 9}, "HLT"},
		{Code{Opcode(0), 3, 9}, "Opcode(0b00000000)"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestCodeBytes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte{0b10000010, 0, 42}, Code{OP_LDI, 0, 42}.Bytes())
	assert.Equal([]byte{0b01000111, 1}, Code{OP_PRN, 1, 2}.Bytes())
	assert.Equal([]byte{0b00000001}, Code{OP_HLT, 1, 2}.Bytes())
}
