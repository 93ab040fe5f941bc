package device

import (
	"github.com/mastercactapus/lzr/gcode"
	"github.com/mastercactapus/lzr/job"
)

type encoder struct {
	blocks  []gcode.Block
	tool    bool
	power   float64
	feed    float64
	feedSet bool
}

// Encode will lower segments to controller blocks: absolute
// millimeter moves with explicit tool and feed changes. The tool is
// always switched off at the end.
func Encode(segs []job.Segment) []gcode.Block {
	if len(segs) == 0 {
		return nil
	}

	e := encoder{blocks: []gcode.Block{
		{{W: 'G', Arg: 21}},
		{{W: 'G', Arg: 90}},
	}}
	for _, seg := range segs {
		switch s := seg.(type) {
		case *job.Move:
			e.move(s)
		case *job.Pause:
			// Controller dwell takes seconds.
			e.add(gcode.Block{{W: 'G', Arg: 4}, {W: 'P', Arg: s.Seconds}})
		}
	}
	e.setTool(false, 0)
	return e.blocks
}

func (e *encoder) add(b gcode.Block) { e.blocks = append(e.blocks, b) }

func (e *encoder) setTool(on bool, power float64) {
	if on == e.tool && (!on || power == e.power) {
		return
	}
	if on {
		e.add(gcode.Block{{W: 'M', Arg: 3}, {W: 'S', Arg: power}})
	} else {
		e.add(gcode.Block{{W: 'M', Arg: 5}})
	}
	e.tool, e.power = on, power
}

func (e *encoder) move(m *job.Move) {
	e.setTool(m.Tool, m.Power)

	if m.Rapid {
		end := m.Points[len(m.Points)-1]
		e.add(gcode.Block{{W: 'G', Arg: 0}, {W: 'X', Arg: end.X}, {W: 'Y', Arg: end.Y}})
		return
	}

	for i, p := range m.Points[1:] {
		b := gcode.Block{{W: 'G', Arg: 1}, {W: 'X', Arg: p.X}, {W: 'Y', Arg: p.Y}}
		if i == 0 && (!e.feedSet || m.Feed != e.feed) {
			b = append(b, gcode.Word{W: 'F', Arg: m.Feed})
			e.feed, e.feedSet = m.Feed, true
		}
		e.add(b)
	}
}
