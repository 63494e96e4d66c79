package cpu

// The stack lives in memory below STACK_BASE, addressed by register SP.

// StackEmpty returns true if nothing is left to pop.
func (cpu *Cpu) StackEmpty() bool {
	return cpu.Register[REG_SP] >= STACK_BASE
}

// StackFull returns true if the stack pointer can not be decremented.
func (cpu *Cpu) StackFull() bool {
	return cpu.Register[REG_SP] == 0
}

// Peek returns the most recently pushed value.
func (cpu *Cpu) Peek() (value byte, ok bool) {
	if cpu.StackEmpty() {
		return
	}

	value, err := cpu.Memory.Read(int(cpu.Register[REG_SP]))
	ok = err == nil
	return
}

// push decrements SP, then stores the low byte of register reg at SP.
func (cpu *Cpu) push(reg byte) (err error) {
	src, err := cpu.reg(reg)
	if err != nil {
		return
	}

	if cpu.StackFull() {
		err = ErrStackFull
		return
	}

	sp := cpu.Register[REG_SP] - 1
	err = cpu.Memory.Write(int(sp), byte(*src))
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = sp

	return
}

// pop loads the byte at SP into register reg, then increments SP.
func (cpu *Cpu) pop(reg byte) (err error) {
	dst, err := cpu.reg(reg)
	if err != nil {
		return
	}

	if cpu.StackEmpty() {
		err = ErrStackEmpty
		return
	}

	value, err := cpu.Memory.Read(int(cpu.Register[REG_SP]))
	if err != nil {
		return
	}

	*dst = uint32(value)
	cpu.Register[REG_SP]++

	return
}
