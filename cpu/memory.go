package cpu

const (
	MEMORY_SIZE    = 256  // Bytes of addressable memory.
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register holding the stack pointer.
	STACK_BASE     = 0xF4 // Stack pointer value after reset. The stack grows down.
)

// Memory is the flat address space shared by program and stack.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value byte, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	value = mem[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int, value byte) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	mem[addr] = value
	return
}
