package cpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Bytes: []byte{130, 0, 8, 71, 0, 0xff, 1, 162},
	}

	type entry struct {
		Addr int
		Code Code
	}
	var codes []entry
	for addr, code := range prog.Codes() {
		codes = append(codes, entry{addr, code})
	}

	assert.Equal([]entry{
		{0, Code{OP_LDI, 0, 8}},
		{3, Code{Opcode: OP_PRN}},
		{5, Code{Opcode: 0xff}},
		{6, Code{Opcode: OP_HLT}},
		{7, Code{Opcode: OP_MUL}},
	}, codes)
}

func TestProgram_WriteImage(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Bytes: []byte{130, 0, 8, 71, 0, 0xff, 1},
	}

	out := &bytes.Buffer{}
	assert.NoError(prog.WriteImage(out))
	assert.Equal(`10000010 # 00: LDI R0,8
00000000
00001000
01000111 # 03: PRN R0
00000000
11111111
00000001 # 06: HLT
`, out.String())

	again, err := ParseImage(out)
	assert.NoError(err)
	assert.Equal(prog.Bytes, again.Bytes)
}
