package gcode

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Read(t *testing.T) {
	const program = "\ufeffG21\n" +
		"; full-line comment\n" +
		"\n" +
		"g1 x10 y-2.5 f600\n" +
		"M3 S800 ; laser on\n"

	p := NewParser(strings.NewReader(program))

	b, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, Block{{W: 'G', Arg: 21}}, b)

	b, err = p.Read()
	require.NoError(t, err)
	assert.Equal(t, Block{{W: 'G', Arg: 1}, {W: 'X', Arg: 10}, {W: 'Y', Arg: -2.5}, {W: 'F', Arg: 600}}, b)

	b, err = p.Read()
	require.NoError(t, err)
	assert.Equal(t, Block{{W: 'M', Arg: 3}, {W: 'S', Arg: 800}}, b)

	b, err = p.Read()
	assert.Equal(t, io.EOF, err)
	assert.Nil(t, b)
}

func TestParser_Read_noTrailingNewline(t *testing.T) {
	p := NewParser(strings.NewReader("G4 P500"))

	b, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, Block{{W: 'G', Arg: 4}, {W: 'P', Arg: 500}}, b)

	_, err = p.Read()
	assert.Equal(t, io.EOF, err)
}

type badReader struct{ err error }

func (r badReader) Read([]byte) (int, error) { return 0, r.err }

func TestParser_Read_sourceError(t *testing.T) {
	srcErr := errors.New("device gone")
	p := NewParser(badReader{err: srcErr})

	b, err := p.Read()
	assert.Equal(t, srcErr, err)
	assert.Nil(t, b)
}

func TestParse(t *testing.T) {
	blocks := Parse("G90\nG1 X5\n")
	assert.Equal(t, []Block{
		{{W: 'G', Arg: 90}},
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 5}},
	}, blocks)

	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("; nothing here\n\n"))
}

func TestParse_malformedParameters(t *testing.T) {
	// A bad numeric suffix drops only that parameter.
	blocks := Parse("G1 X Y5")
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{{W: 'G', Arg: 1}, {W: 'Y', Arg: 5}}, blocks[0])

	// A malformed first occurrence hides later duplicates.
	blocks = Parse("G1 X X7 Y2")
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{{W: 'G', Arg: 1}, {W: 'Y', Arg: 2}}, blocks[0])

	// Duplicates resolve to the first well-formed occurrence.
	blocks = Parse("G1 X3 X7")
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{{W: 'G', Arg: 1}, {W: 'X', Arg: 3}}, blocks[0])

	// Stray non-word tokens are skipped without killing the line.
	blocks = Parse("G1 X 10")
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{{W: 'G', Arg: 1}}, blocks[0])
}

func TestParse_badLeadingToken(t *testing.T) {
	// No usable command word means the whole line is dropped,
	// parameters included.
	assert.Nil(t, Parse("HELLO WORLD"))
	assert.Nil(t, Parse("% X5 Y5"))
	assert.Nil(t, Parse("G1X10 Y5"))
	assert.Nil(t, Parse("G"))
}

func TestParse_signsAndCase(t *testing.T) {
	blocks := Parse("g2 x-1.5 y+2. i.5 j-0")
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{
		{W: 'G', Arg: 2},
		{W: 'X', Arg: -1.5},
		{W: 'Y', Arg: 2},
		{W: 'I', Arg: 0.5},
		{W: 'J', Arg: 0},
	}, blocks[0])
}

func TestBlocksReader(t *testing.T) {
	blocks := []Block{
		{{W: 'G', Arg: 1}, {W: 'X', Arg: 2}},
		{{W: 'M', Arg: 5}},
	}

	gr := &BlocksReader{Blocks: blocks}

	b, err := gr.Read()
	assert.NoError(t, err)
	assert.Equal(t, Block{{W: 'G', Arg: 1}, {W: 'X', Arg: 2}}, b)

	b, err = gr.Read()
	assert.NoError(t, err)
	assert.Equal(t, Block{{W: 'M', Arg: 5}}, b)

	b, err = gr.Read()
	assert.Equal(t, io.EOF, err)
	assert.Nil(t, b)
}
