package job

import "github.com/mastercactapus/lzr/coord"

// Bounds will return the padded bounding box of all move points in
// segs. It returns false when segs contains no moves.
func Bounds(segs []Segment) (coord.Rect, bool) {
	var r coord.Rect
	var found bool
	for _, seg := range segs {
		m, ok := seg.(*Move)
		if !ok {
			continue
		}
		for _, p := range m.Points {
			if !found {
				r = coord.RectAt(p)
				found = true
				continue
			}
			r = r.Expand(p)
		}
	}
	if !found {
		return coord.Rect{}, false
	}
	return r.Pad(), true
}
