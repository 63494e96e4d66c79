package cpu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const printEight = `# print8.ls8: Print the number 8 on the screen

10000010 # LDI R0,8
00000000
00001000
01000111 # PRN R0
00000000
00000001 # HLT
`

func TestParseImage(t *testing.T) {
	assert := assert.New(t)

	prog, err := ParseImage(strings.NewReader(printEight))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]byte{130, 0, 8, 71, 0, 1}, prog.Bytes)
	assert.Equal([]int{3, 4, 5, 6, 7, 8}, prog.Lines)
	assert.Equal(8, prog.LineNo(5))
	assert.Equal(0, prog.LineNo(6))
	assert.Equal(0, prog.LineNo(-1))
}

func TestParseImageSyntax(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		image string
		bytes []byte
	}){
		{"empty", "", nil},
		{"comments", "# one\n\n   # two\n", nil},
		{"prefix", "0b00000001\n", []byte{1}},
		{"short", "101 # five\n", []byte{5}},
		{"spaces", "  \t11111111  \n", []byte{255}},
		{"crlf", "00000001\r\n00000010\r\n", []byte{1, 2}},
	}

	for _, entry := range table {
		prog, err := ParseImage(strings.NewReader(entry.image))
		assert.NoError(err, entry.name)
		if err == nil {
			assert.Equal(entry.bytes, prog.Bytes, entry.name)
		}
	}
}

func TestParseImageMalformed(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		image  string
		lineno int
	}){
		{"decimal", "00000001\n42\n", 2},
		{"too_wide", "100000000\n", 1},
		{"negative", "-1\n", 1},
		{"text", "\n\nLDI R0,8 # nope\n", 3},
		{"prefix_only", "0b\n", 1},
	}

	for _, entry := range table {
		prog, err := ParseImage(strings.NewReader(entry.image))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, ErrProgramMalformed, entry.name)

		var syn *ErrSyntax
		if assert.True(errors.As(err, &syn), entry.name) {
			assert.Equal(entry.lineno, syn.LineNo, entry.name)
		}
	}
}

func TestParseImageSize(t *testing.T) {
	assert := assert.New(t)

	image := strings.Repeat("00000000\n", MEMORY_SIZE)
	prog, err := ParseImage(strings.NewReader(image))
	assert.NoError(err)
	assert.Equal(MEMORY_SIZE, len(prog.Bytes))

	prog, err = ParseImage(strings.NewReader(image + "# fine\n00000001\n"))
	assert.Nil(prog)
	assert.ErrorIs(err, ErrProgramMalformed)
	assert.ErrorIs(err, ErrProgramSize)
}

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "print8.ls8")
	assert.NoError(os.WriteFile(path, []byte(printEight), 0o644))

	a, err := LoadImage(path)
	assert.NoError(err)
	b, err := LoadImage(path)
	assert.NoError(err)

	ca := NewCpu()
	cb := NewCpu()
	assert.NoError(ca.Load(a))
	assert.NoError(cb.Load(b))
	assert.Equal(ca.Memory, cb.Memory)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.ls8"))
	assert.ErrorIs(err, os.ErrNotExist)
}
