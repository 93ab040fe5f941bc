package gcode

// Block is one line of a program: a command word followed by its
// parameter words.
type Block []Word

// Arg returns the value of the first parameter word with the given
// letter. The leading command word is never consulted.
func (b Block) Arg(w byte) (float64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	for _, g := range b[1:] {
		if g.W == w {
			return g.Arg, true
		}
	}
	return 0, false
}

func (b Block) String() string {
	var s string
	for _, g := range b {
		s += g.String()
	}
	return s
}
