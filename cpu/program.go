package cpu

import (
	"fmt"
	"io"
	"iter"
)

// Program is a memory image, and the source line of each byte.
type Program struct {
	Bytes []byte
	Lines []int
}

// LineNo returns the source line number of the byte at addr, or 0.
func (prog *Program) LineNo(addr int) int {
	if addr < 0 || addr >= len(prog.Lines) {
		return 0
	}

	return prog.Lines[addr]
}

// Codes walks the image as an instruction stream.
//
// Bytes that are not a known opcode are yielded as single byte codes.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		for addr := 0; addr < len(prog.Bytes); {
			code := Code{Opcode: Opcode(prog.Bytes[addr])}
			width := 1
			if code.Opcode.Known() {
				width = min(code.Opcode.Width(), len(prog.Bytes)-addr)
				if width > 1 {
					code.A = prog.Bytes[addr+1]
				}
				if width > 2 {
					code.B = prog.Bytes[addr+2]
				}
			}
			if !yield(addr, code) {
				return
			}
			addr += width
		}
	}
}

// WriteImage writes the program in the text image format, one binary
// byte per line, with the disassembly of each instruction as a comment.
func (prog *Program) WriteImage(w io.Writer) (err error) {
	for addr, code := range prog.Codes() {
		if !code.Opcode.Known() {
			_, err = fmt.Fprintf(w, "%08b\n", prog.Bytes[addr])
			if err != nil {
				return
			}
			continue
		}

		_, err = fmt.Fprintf(w, "%08b # %02X: %v\n", prog.Bytes[addr], addr, code)
		if err != nil {
			return
		}
		for n := 1; n < code.Opcode.Width() && addr+n < len(prog.Bytes); n++ {
			_, err = fmt.Fprintf(w, "%08b\n", prog.Bytes[addr+n])
			if err != nil {
				return
			}
		}
	}

	return
}
