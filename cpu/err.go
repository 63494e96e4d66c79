package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("halted"))
	ErrStackEmpty      = errors.New(f("stack empty"))
	ErrStackFull       = errors.New(f("stack full"))
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))

	// Instruction decode errors
	ErrOpcodeUnknown  = errors.New(f("instruction not recognized"))
	ErrAluUnsupported = errors.New(f("unsupported alu operation"))

	// Loader errors
	ErrProgramMalformed = errors.New(f("malformed program"))
	ErrProgramSize      = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrValueRange         = errors.New(f("value does not fit in a byte"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode names the instruction that failed.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v", uint8(eo.Opcode), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress is an access to an address outside of memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x", int(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrAddressRange
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseBinary is a program image line that is not a binary byte.
type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not a binary byte", string(err))
}

func (err ErrParseBinary) Unwrap() error {
	return ErrProgramMalformed
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
