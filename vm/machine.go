package vm

import (
	"github.com/mastercactapus/lzr/coord"
	"github.com/mastercactapus/lzr/gcode"
	"github.com/mastercactapus/lzr/job"
)

// Default feed rates in mm/min, used when a program never sets F.
const (
	RapidFeed = 3000.0
	CutFeed   = 1000.0
)

// DefaultPower is the tool power assumed by M3 without an S word.
const DefaultPower = 1000.0

const mmPerInch = 25.4

// Machine tracks modal interpreter state across blocks: units,
// coordinate mode, position, feed, and tool state. A Machine is
// owned by a single program run and is not safe for concurrent use.
type Machine struct {
	inches   bool
	relative bool
	pos      coord.Point
	feed     float64
	feedSet  bool
	tool     bool
	power    float64
}

// New will return a Machine at the origin, in millimeters,
// absolute mode, tool off.
func New() *Machine {
	return &Machine{}
}

// Pos will return the current position in millimeters.
func (m *Machine) Pos() coord.Point { return m.pos }

// Inches reports whether inch units are active.
func (m *Machine) Inches() bool { return m.inches }

// Relative reports whether relative coordinate mode is active.
func (m *Machine) Relative() bool { return m.relative }

// Tool reports whether the tool is engaged.
func (m *Machine) Tool() bool { return m.tool }

// Power will return the active tool power level.
func (m *Machine) Power() float64 { return m.power }

// Feed will return the modal feed rate, and false if no F word
// has been seen yet.
func (m *Machine) Feed() (float64, bool) { return m.feed, m.feedSet }

// Run will execute one block, updating modal state. It returns the
// emitted segment, or nil when the block only mutates state or is
// not recognized.
func (m *Machine) Run(b gcode.Block) job.Segment {
	if len(b) == 0 {
		return nil
	}

	switch b[0].W {
	case 'G':
		switch b[0].Arg {
		case 20:
			m.inches = true
		case 21:
			m.inches = false
		case 90:
			m.relative = false
		case 91:
			m.relative = true
		case 92:
			m.setPosition(b)
		case 28:
			return m.home()
		case 4:
			return m.dwell(b)
		case 0:
			return m.move(b, true)
		case 1:
			return m.move(b, false)
		case 2:
			return m.arc(b, true)
		case 3:
			return m.arc(b, false)
		}
	case 'M':
		switch b[0].Arg {
		case 3:
			m.tool = true
			m.power = DefaultPower
			if s, ok := b.Arg('S'); ok {
				m.power = s
			}
		case 5:
			m.tool = false
			m.power = 0
		}
	}

	return nil
}

// axis will return the named coordinate word converted to
// millimeters, and false when the word is absent.
func (m *Machine) axis(b gcode.Block, w byte) (float64, bool) {
	val, ok := b.Arg(w)
	if !ok {
		return 0, false
	}
	if m.inches {
		val *= mmPerInch
	}
	return val, true
}

// target will resolve the X and Y words of a motion block into an
// absolute end point. Absent words keep the current component in
// absolute mode and contribute no displacement in relative mode.
func (m *Machine) target(b gcode.Block) coord.Point {
	end := m.pos
	x, okX := m.axis(b, 'X')
	y, okY := m.axis(b, 'Y')
	if m.relative {
		if okX {
			end.X += x
		}
		if okY {
			end.Y += y
		}
		return end
	}
	if okX {
		end.X = x
	}
	if okY {
		end.Y = y
	}
	return end
}

func (m *Machine) moveFeed(rapid bool) float64 {
	if m.feedSet {
		return m.feed
	}
	if rapid {
		return RapidFeed
	}
	return CutFeed
}

func (m *Machine) setPosition(b gcode.Block) {
	if x, ok := m.axis(b, 'X'); ok {
		m.pos.X = x
	}
	if y, ok := m.axis(b, 'Y'); ok {
		m.pos.Y = y
	}
}

func (m *Machine) home() job.Segment {
	seg := job.NewMove(job.Line(m.pos, coord.Point{}), m.moveFeed(true), true, m.tool, m.power)
	m.pos = coord.Point{}
	return seg
}

func (m *Machine) dwell(b gcode.Block) job.Segment {
	// P is milliseconds and is never unit-converted.
	p, _ := b.Arg('P')
	return job.NewPause(p / 1000)
}

func (m *Machine) move(b gcode.Block, rapid bool) job.Segment {
	if f, ok := b.Arg('F'); ok {
		m.feed = f
		m.feedSet = true
	}
	end := m.target(b)
	seg := job.NewMove(job.Line(m.pos, end), m.moveFeed(rapid), rapid, m.tool, m.power)
	m.pos = end
	return seg
}

func (m *Machine) arc(b gcode.Block, cw bool) job.Segment {
	end := m.target(b)
	i, _ := m.axis(b, 'I')
	j, _ := m.axis(b, 'J')
	center := m.pos.Add(coord.Point{X: i, Y: j})

	seg := job.NewMove(job.Arc(m.pos, end, center, cw), m.moveFeed(false), false, m.tool, m.power)
	m.pos = end
	return seg
}
