package cpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for n := range 256 {
		f.Add(uint8(n), uint8(0), uint8(1), uint8(0))
	}
	f.Add(uint8(OP_LDI), uint8(7), uint8(0), uint8(0))
	f.Add(uint8(OP_PUSH), uint8(9), uint8(0), uint8(0))
	f.Add(uint8(OP_JEQ), uint8(3), uint8(0), uint8(FLAG_E))

	f.Fuzz(func(t *testing.T, opcode uint8, a uint8, b uint8, flags uint8) {
		assert := assert.New(t)

		out := &bytes.Buffer{}
		cpu := NewCpu()
		cpu.Output = out
		cpu.Pc = 0x10
		cpu.Flags = Flags(flags) & (FLAG_E | FLAG_G | FLAG_L)
		for n := range 7 {
			cpu.Register[n] = uint32(0x20 + n)
		}
		cpu.Memory[0x10] = opcode
		cpu.Memory[0x11] = a
		cpu.Memory[0x12] = b

		op := Opcode(opcode)
		before := *cpu

		err := cpu.Tick()

		switch {
		case op == OP_HLT:
			assert.Equal(ErrHalted, err)
			assert.True(cpu.Halted)
			assert.Equal(0x10, cpu.Pc)
		case !op.Known():
			assert.ErrorIs(err, ErrOpcodeUnknown)
			assert.Equal(before.Register, cpu.Register)
			assert.Equal(before.Memory, cpu.Memory)
			assert.Equal(0x10, cpu.Pc)
		case err != nil:
			// Failed instructions leave the PC on the instruction.
			assert.True(errors.Is(err, ErrRegisterInvalid) ||
				errors.Is(err, ErrStackEmpty), err.Error())
			assert.Equal(0x10, cpu.Pc)
			assert.Equal(0, cpu.Ticks)
		case op.Jump():
			taken := op == OP_JMP ||
				(op == OP_JEQ && cpu.Flags.Equal()) ||
				(op == OP_JNE && !cpu.Flags.Equal())
			if taken {
				assert.Equal(int(cpu.Register[a]), cpu.Pc)
			} else {
				assert.Equal(0x10+op.Width(), cpu.Pc)
			}
		default:
			assert.Equal(0x10+op.Width(), cpu.Pc)
			assert.Equal(1, cpu.Ticks)
		}

		if op == OP_PRN && err == nil {
			assert.NotEmpty(out.String())
		}
	})
}
