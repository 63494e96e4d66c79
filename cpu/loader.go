package cpu

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseImage reads a program image: one binary byte per line, '#'
// starting a comment. Blank and comment-only lines are skipped.
func ParseImage(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		payload, _, _ := strings.Cut(line, "#")
		payload = strings.TrimSpace(payload)
		if len(payload) == 0 {
			continue
		}

		if len(prog.Bytes) == MEMORY_SIZE {
			err = errors.Join(ErrProgramMalformed, ErrProgramSize)
			return
		}

		var value byte
		value, err = parseBinary(payload)
		if err != nil {
			return
		}

		prog.Bytes = append(prog.Bytes, value)
		prog.Lines = append(prog.Lines, lineno)
	}

	err = scanner.Err()

	return
}

// parseBinary parses a base-2 byte, with an optional 0b prefix.
func parseBinary(word string) (value byte, err error) {
	digits := word
	if len(digits) > 2 && (digits[:2] == "0b" || digits[:2] == "0B") {
		digits = digits[2:]
	}

	v64, err := strconv.ParseUint(digits, 2, 8)
	if err != nil {
		err = ErrParseBinary(word)
		return
	}

	value = byte(v64)
	return
}

// LoadImage parses the program image file at path.
func LoadImage(path string) (prog *Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return ParseImage(inf)
}
