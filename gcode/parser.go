package gcode

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Reader yields one block at a time from some source of blocks.
type Reader interface {
	Read() (Block, error)
}

// Parser reads a raw program line by line, one Block per meaningful
// line. It is deliberately permissive: blank lines, comment lines and
// unparseable words are dropped, never reported. The only errors it
// returns come from the underlying reader.
type Parser struct {
	br      *bufio.Reader
	started bool
}

var _ Reader = &Parser{}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

// Read returns the next non-empty block, or io.EOF when the source
// is exhausted.
func (p *Parser) Read() (Block, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		if !p.started {
			s = strings.TrimPrefix(s, "\ufeff")
			p.started = true
		}

		b := parseLine(s)
		if len(b) == 0 {
			continue
		}
		return b, nil
	}
}

// parseLine tokenizes one raw line. The first token must be a valid
// word or the whole line is dropped. Parameter tokens resolve
// first-match-wins per letter: a malformed first occurrence makes
// that parameter absent even when a well-formed duplicate follows.
func parseLine(s string) Block {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	fields := strings.Fields(strings.ToUpper(s))
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := parseWord(fields[0])
	if !ok {
		return nil
	}

	b := Block{cmd}
	var seen [256]bool
	for _, f := range fields[1:] {
		w := f[0]
		if w < 'A' || w > 'Z' || seen[w] {
			continue
		}
		seen[w] = true
		if arg, err := strconv.ParseFloat(f[1:], 64); err == nil {
			b = append(b, Word{W: w, Arg: arg})
		}
	}
	return b
}

func parseWord(s string) (Word, bool) {
	if s[0] < 'A' || s[0] > 'Z' {
		return Word{}, false
	}
	arg, err := strconv.ParseFloat(s[1:], 64)
	if err != nil {
		return Word{}, false
	}
	return Word{W: s[0], Arg: arg}, true
}
