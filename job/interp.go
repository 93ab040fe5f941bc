package job

import (
	"math"

	"github.com/mastercactapus/lzr/coord"
)

// samplesPerTurn is the number of arc samples for a full circle.
const samplesPerTurn = 64

// Line will sample a straight move from start to end at roughly
// 1mm spacing. The result includes both endpoints and always has
// at least 2 points.
func Line(start, end coord.Point) []coord.Point {
	steps := int(start.Distance(end))
	if steps < 1 {
		steps = 1
	}

	pts := make([]coord.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, start.Lerp(end, float64(i)/float64(steps)))
	}
	return pts
}

// Arc will sample a circular move about center from start to end.
// cw selects the direction of travel. If start and end land on the
// same angle the full circle is traced.
func Arc(start, end, center coord.Point, cw bool) []coord.Point {
	r := center.Distance(start)
	a1 := center.Angle(start)
	a2 := center.Angle(end)

	var sweep float64
	if cw {
		if a2 >= a1 {
			a2 -= 2 * math.Pi
		}
		sweep = a1 - a2
	} else {
		if a2 <= a1 {
			a2 += 2 * math.Pi
		}
		sweep = a2 - a1
	}

	steps := int(sweep / (2 * math.Pi) * samplesPerTurn)
	if steps < 8 {
		steps = 8
	}

	pts := make([]coord.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := sweep * float64(i) / float64(steps)
		if cw {
			a = a1 - a
		} else {
			a = a1 + a
		}
		pts = append(pts, coord.Point{
			X: center.X + r*math.Cos(a),
			Y: center.Y + r*math.Sin(a),
		})
	}
	return pts
}
