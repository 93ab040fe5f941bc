// Command test cross-checks a sample laser program: it dumps the
// gocnc interpreter's final machine state next to lzr's segment
// list so the two readings can be compared by eye.
package main

import (
	"fmt"
	"strings"

	"github.com/joushou/gocnc/gcode"
	gvm "github.com/joushou/gocnc/vm"

	"github.com/mastercactapus/lzr/job"
	"github.com/mastercactapus/lzr/vm"
)

const program = `
G21
G90
M3 S800
G1 X10 Y0 F600
G2 X10 Y10 I0 J5
M5
G28
`

func main() {
	doc, err := gcode.Parse(strings.TrimSpace(program))
	if err != nil {
		panic(err)
	}

	var m gvm.Machine
	m.Init()
	m.Process(doc)
	m.Dump()

	for i, seg := range vm.BuildString(program) {
		switch s := seg.(type) {
		case *job.Move:
			end := s.Points[len(s.Points)-1]
			fmt.Printf("%d: move (%.3f,%.3f) feed=%g rapid=%v tool=%v power=%g\n",
				i, end.X, end.Y, s.Feed, s.Rapid, s.Tool, s.Power)
		case *job.Pause:
			fmt.Printf("%d: pause %gs\n", i, s.Seconds)
		}
	}
}
