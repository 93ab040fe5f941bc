package vm

import (
	"io"

	"github.com/mastercactapus/lzr/gcode"
	"github.com/mastercactapus/lzr/job"
)

// Build will run every block from r through a fresh Machine and
// return the emitted segments in program order.
func Build(r gcode.Reader) ([]job.Segment, error) {
	m := New()
	var segs []job.Segment
	for {
		b, err := r.Read()
		if err == io.EOF {
			return segs, nil
		}
		if err != nil {
			return nil, err
		}
		if seg := m.Run(b); seg != nil {
			segs = append(segs, seg)
		}
	}
}

// BuildString is Build for an in-memory program.
func BuildString(program string) []job.Segment {
	m := New()
	var segs []job.Segment
	for _, b := range gcode.Parse(program) {
		if seg := m.Run(b); seg != nil {
			segs = append(segs, seg)
		}
	}
	return segs
}
