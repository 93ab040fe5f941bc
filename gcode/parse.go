package gcode

import (
	"io"
	"strings"
)

// Parse tokenizes a whole program held in memory. Unlike Parser it
// can never fail: a string source has no read errors and bad lines
// are dropped.
func Parse(data string) []Block {
	data = strings.TrimPrefix(data, "\ufeff")
	var b []Block
	for _, ln := range strings.Split(data, "\n") {
		if bl := parseLine(ln); len(bl) > 0 {
			b = append(b, bl)
		}
	}
	return b
}

// BlocksReader reads from a fixed slice of blocks.
type BlocksReader struct {
	Blocks []Block
	n      int
}

var _ Reader = &BlocksReader{}

func (b *BlocksReader) Read() (Block, error) {
	if b.n == len(b.Blocks) {
		return nil, io.EOF
	}

	b.n++
	return b.Blocks[b.n-1], nil
}
