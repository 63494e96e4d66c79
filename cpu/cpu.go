package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"

	"github.com/ezrec/ls8/internal"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"STACK_BASE":     fmt.Sprintf("0x%X", STACK_BASE),
}

var _flag_defines = map[string]string{
	"FLAG_E": fmt.Sprintf("%d", FLAG_E),
	"FLAG_G": fmt.Sprintf("%d", FLAG_G),
	"FLAG_L": fmt.Sprintf("%d", FLAG_L),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool         // Set to enable per-instruction debug logging.
	Log     *slog.Logger // Logger for verbose output, slog.Default() if nil.
	Output  io.Writer    // Destination of PRN, discarded if nil.

	Memory   Memory                 // Program and stack memory.
	Register [REGISTER_COUNT]uint32 // Register bank. R7 is the stack pointer.
	Pc       int                    // Program counter.
	Ir       Code                   // Last fetched instruction.
	Flags    Flags                  // Result of the last CMP.
	Halted   bool                   // Set once HLT has executed.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_cpu_defines), maps.All(_flag_defines))
}

func (cpu *Cpu) logger() *slog.Logger {
	if cpu.Log != nil {
		return cpu.Log
	}
	return slog.Default()
}

func (cpu *Cpu) output() io.Writer {
	if cpu.Output != nil {
		return cpu.Output
	}
	return io.Discard
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "ir", "fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "sp",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "ir":
			strval = cpu.Ir.String()
		case "fl":
			strval = cpu.Flags.String()
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6":
			val := cpu.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%08X", val)
		case "sp":
			strval = fmt.Sprintf("%08X", cpu.Register[REG_SP])
		case "stack":
			val, ok := cpu.Peek()
			if ok {
				strval = fmt.Sprintf("%02X", val)
			} else {
				strval = "--"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and flags.
// - Sets SP to STACK_BASE and PC to 0.
// - Zeros the tick counter.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_BASE
	cpu.Pc = 0
	cpu.Ir = Code{}
	cpu.Flags = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load clears memory and copies the program image to address 0.
func (cpu *Cpu) Load(prog *Program) (err error) {
	if len(prog.Bytes) > len(cpu.Memory) {
		err = errors.Join(ErrProgramMalformed, ErrProgramSize)
		return
	}

	clear(cpu.Memory[:])
	copy(cpu.Memory[:], prog.Bytes)

	if cpu.Verbose {
		cpu.logger().Debug("cpu: load", "bytes", len(prog.Bytes))
	}

	return
}

// reg returns the register selected by an operand byte.
func (cpu *Cpu) reg(index byte) (reg *uint32, err error) {
	if int(index) >= len(cpu.Register) {
		err = fmt.Errorf("%w: %d", ErrRegisterInvalid, index)
		return
	}

	reg = &cpu.Register[index]
	return
}

// FetchCode fetches the instruction at the PC.
//
// Both operand bytes are read whatever the opcode; operand reads
// past the end of memory yield zero.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	op, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(op)
	code.A, _ = cpu.Memory.Read(cpu.Pc + 1)
	code.B, _ = cpu.Memory.Read(cpu.Pc + 2)

	if code.Opcode.Known() {
		last := cpu.Pc + code.Opcode.Operands()
		if last >= len(cpu.Memory) {
			err = ErrAddress(last)
			return
		}
	}

	cpu.Ir = code

	return
}

// Tick executes a single CPU instruction cycle.
//
// ErrHalted is returned when HLT executes, and on every tick after.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	return cpu.Execute(code)
}

// Execute executes a single decoded instruction at the current PC.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil && err != ErrHalted {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		cpu.logger().Debug("cpu: exec",
			"pc", cpu.Pc,
			"code", code.String(),
			"fl", cpu.Flags.String(),
			"sp", cpu.Register[REG_SP],
		)
	}

	switch {
	case code.Opcode == OP_HLT:
		cpu.Halted = true
		err = ErrHalted
		return
	case !code.Opcode.Known():
		err = ErrOpcodeUnknown
		return
	case code.Opcode.Jump():
		var next_pc int
		next_pc, err = cpu.branch(code)
		if err != nil {
			return
		}
		cpu.Pc = next_pc
	default:
		err = cpu.operate(code)
		if err != nil {
			return
		}
		cpu.Pc += code.Opcode.Width()
	}

	cpu.Ticks++

	return
}

// branch executes a control transfer, and returns the next PC.
func (cpu *Cpu) branch(code Code) (next_pc int, err error) {
	target, err := cpu.reg(code.A)
	if err != nil {
		return
	}

	var taken bool
	switch code.Opcode {
	case OP_JMP:
		taken = true
	case OP_JEQ:
		taken = cpu.Flags.Equal()
	case OP_JNE:
		taken = !cpu.Flags.Equal()
	default:
		err = ErrOpcodeUnknown
		return
	}

	if taken {
		next_pc = int(*target)
	} else {
		next_pc = cpu.Pc + code.Opcode.Width()
	}

	return
}

// operate executes a non-branching instruction.
func (cpu *Cpu) operate(code Code) (err error) {
	switch code.Opcode {
	case OP_LDI:
		var dst *uint32
		dst, err = cpu.reg(code.A)
		if err != nil {
			return
		}
		*dst = uint32(code.B)
	case OP_PRN:
		var src *uint32
		src, err = cpu.reg(code.A)
		if err != nil {
			return
		}
		_, err = fmt.Fprintln(cpu.output(), *src)
	case OP_MUL:
		err = cpu.Alu(ALU_OP_MUL, code.A, code.B)
	case OP_CMP:
		err = cpu.Alu(ALU_OP_CMP, code.A, code.B)
	case OP_PUSH:
		err = cpu.push(code.A)
	case OP_POP:
		err = cpu.pop(code.A)
	default:
		err = ErrOpcodeUnknown
	}

	return
}
