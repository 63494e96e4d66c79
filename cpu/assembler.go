// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"SP":     "R7",
}

var (
	charRe  = regexp.MustCompile(`'\\?[^']'`)
	parenRe = regexp.MustCompile(`\$\([^\$]*\)`)
	labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// link is an immediate operand waiting on a label address.
type link struct {
	Addr   int
	Label  string
	LineNo int
	Line   string
}

// Assembler is a two pass assembler for the LS-8 instruction set.
//
// Each line is `[label:]... MNEMONIC [arg[, arg]]`, with ';' or '#'
// starting a comment. Registers are R0 to R7, or SP. Values may be
// Go integer literals, 'c' characters, equates, labels, or $(expr)
// compile time expressions.
type Assembler struct {
	Verbose bool         // If set, verbosely logs the assembler actions.
	Log     *slog.Logger // Logger for verbose output, slog.Default() if nil.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to addresses.
	Equate    map[string]string // Map of equates.

	bytes []byte
	lines []int
	links []link
}

func (asm *Assembler) logger() *slog.Logger {
	if asm.Log != nil {
		return asm.Log
	}
	return slog.Default()
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// equate resolves a word through the equates.
func (asm *Assembler) equate(word string) string {
	for range len(asm.Equate) + 1 {
		value, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = value
	}
	return word
}

// valueOf returns the byte value of a word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	word = asm.equate(word)

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	value = byte(v64)
	return
}

// registerOf returns the register index named by a word.
func (asm *Assembler) registerOf(word string) (reg byte, err error) {
	word = strings.ToUpper(asm.equate(word))
	if word == "SP" {
		reg = REG_SP
		return
	}

	if len(word) != 2 || word[0] != 'R' || word[1] < '0' || word[1] >= '0'+REGISTER_COUNT {
		err = ErrParseRegister(word)
		return
	}

	reg = word[1] - '0'
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		v64, err := strconv.ParseInt(asm.equate(key), 0, 64)
		if err != nil {
			// Ignore non-integer equates. They may be registers.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// emit appends bytes to the image.
func (asm *Assembler) emit(lineno int, data ...byte) (err error) {
	if len(asm.bytes)+len(data) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	for _, b := range data {
		asm.bytes = append(asm.bytes, b)
		asm.lines = append(asm.lines, lineno)
	}

	return
}

// splitArgs splits an operand list on commas.
func splitArgs(text string) (args []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	for _, arg := range strings.Split(text, ",") {
		args = append(args, strings.TrimSpace(arg))
	}

	return
}

// parseLine assembles a single line.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			case "'":
				str = "'"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	line, _, _ = strings.Cut(line, ";")
	line, _, _ = strings.Cut(line, "#")

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !labelRe.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = len(asm.bytes)
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	mnemonic := strings.ToUpper(words[0])
	args := splitArgs(strings.Join(words[1:], " "))

	switch mnemonic {
	case ".EQU":
		// .equ CONST VALUE
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	case ".DB":
		// .db VALUE[, VALUE...]
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, arg := range args {
			var value byte
			value, err = asm.immediate(arg, len(asm.bytes), lineno, line)
			if err != nil {
				return
			}
			err = asm.emit(lineno, value)
			if err != nil {
				return
			}
		}
		return
	}

	op, ok := LookupOpcode(mnemonic)
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if len(args) > op.Operands() {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < op.Operands() {
		err = ErrOpcodeValueMissing
		return
	}

	code := Code{Opcode: op}
	operands := []*byte{&code.A, &code.B}
	for n, arg := range args {
		switch opcodeTable[op].Args[n] {
		case ARG_REG:
			*operands[n], err = asm.registerOf(arg)
		default:
			*operands[n], err = asm.immediate(arg, len(asm.bytes)+1+n, lineno, line)
		}
		if err != nil {
			return
		}
	}

	if asm.Verbose {
		asm.logger().Debug("asm: emit", "addr", len(asm.bytes), "code", code.String())
	}

	return asm.emit(lineno, code.Bytes()...)
}

// immediate returns the value of a word to be stored at addr. Label
// references are resolved after the final line.
func (asm *Assembler) immediate(word string, addr int, lineno int, line string) (value byte, err error) {
	value, err = asm.valueOf(word)

	var nan ErrParseNumber
	label := asm.equate(word)
	if !errors.As(err, &nan) || !labelRe.MatchString(label) {
		return
	}

	err = nil
	target, ok := asm.Label[label]
	if ok {
		value = byte(target)
		return
	}

	asm.links = append(asm.links, link{
		Addr:   addr,
		Label:  label,
		LineNo: lineno,
		Line:   line,
	})

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.bytes = nil
	asm.lines = nil
	asm.links = nil

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.logger().Debug("asm: line", "lineno", lineno, "text", line)
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, ln := range asm.links {
		target, ok := asm.Label[ln.Label]
		if !ok {
			lineno = ln.LineNo
			line = ln.Line
			err = ErrLabelMissing(ln.Label)
			return
		}
		asm.bytes[ln.Addr] = byte(target)
	}

	prog = &Program{
		Bytes: asm.bytes,
		Lines: asm.lines,
	}

	return
}
