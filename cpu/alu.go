package cpu

import (
	"fmt"
)

// AluOp is an ALU operation type.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0) // ADD
	ALU_OP_MUL = AluOp(1) // MUL
	ALU_OP_CMP = AluOp(2) // CMP
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "ADD"
	case ALU_OP_MUL:
		return "MUL"
	case ALU_OP_CMP:
		return "CMP"
	}
	return fmt.Sprintf("AluOp(%d)", int(op))
}

// Alu performs op on the registers reg_a and reg_b.
//
// ADD and MUL write the result back into reg_a, wrapping at 32 bits.
// CMP sets exactly one of the E, L and G flags.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b byte) (err error) {
	a, err := cpu.reg(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.reg(reg_b)
	if err != nil {
		return
	}

	switch op {
	case ALU_OP_ADD:
		*a += *b
	case ALU_OP_MUL:
		*a *= *b
	case ALU_OP_CMP:
		switch {
		case *a == *b:
			cpu.Flags = FLAG_E
		case *a < *b:
			cpu.Flags = FLAG_L
		default:
			cpu.Flags = FLAG_G
		}
	default:
		err = fmt.Errorf("%w: %v", ErrAluUnsupported, op)
	}

	return
}
