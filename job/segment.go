package job

import (
	"encoding/json"

	"github.com/mastercactapus/lzr/coord"
)

// Segment is a single machine action produced by the interpreter.
// It is either a *Move or a *Pause.
type Segment interface {
	segment()
}

// Move is a head motion along a polyline of sampled points.
type Move struct {
	// Points holds the sampled path, starting at the position the
	// head occupied before the move. It always has at least 2 entries.
	Points []coord.Point

	// Feed is the commanded speed in mm/min.
	Feed float64

	// Rapid is true for positioning moves (G0).
	Rapid bool

	// Tool reports whether the tool was engaged during the move.
	Tool bool

	// Power is the tool power level active during the move.
	Power float64
}

// Pause is a timed hold at the current position.
type Pause struct {
	Seconds float64
}

func (*Move) segment()  {}
func (*Pause) segment() {}

// NewMove will return a Move over the given points. The slice must
// include the starting position followed by at least one sample.
func NewMove(pts []coord.Point, feed float64, rapid, tool bool, power float64) *Move {
	return &Move{Points: pts, Feed: feed, Rapid: rapid, Tool: tool, Power: power}
}

// NewPause will return a Pause of the given duration. Negative
// durations are clamped to zero.
func NewPause(seconds float64) *Pause {
	if seconds < 0 {
		seconds = 0
	}
	return &Pause{Seconds: seconds}
}

func (m *Move) MarshalJSON() ([]byte, error) {
	type move Move
	return json.Marshal(struct {
		Kind string
		move
	}{Kind: "move", move: move(*m)})
}

func (p *Pause) MarshalJSON() ([]byte, error) {
	type pause Pause
	return json.Marshal(struct {
		Kind string
		pause
	}{Kind: "pause", pause: pause(*p)})
}
