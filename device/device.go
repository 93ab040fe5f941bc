package device

import (
	"io"

	"github.com/mastercactapus/lzr/coord"
)

// State is one controller status report.
type State struct {
	Status string
	Pos    coord.Point
	Feed   float64
	Power  float64
}

// Port is a connection to a motion controller that accepts the
// encoded line stream.
type Port interface {
	// State will return the channel of status reports. Reports are
	// dropped when nothing is receiving.
	State() chan State

	// CurrentState will return the last status report seen.
	CurrentState() State

	// ReadFrom will stream newline-terminated program lines from r,
	// returning once the controller has acknowledged every line.
	ReadFrom(r io.Reader) (int64, error)

	// WriteByte will send a single realtime byte, bypassing flow
	// control. Use for commands like `?`.
	WriteByte(b byte) error

	// Write will send p as program lines, returning after execution.
	Write(p []byte) (int, error)
}
