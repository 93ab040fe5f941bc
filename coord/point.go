package coord

import (
	"math"
)

// Point is a position on the work area, in millimeters.
type Point struct{ X, Y float64 }

func (p Point) Equal(b Point) bool {
	return p.X == b.X && p.Y == b.Y
}

func (p Point) Mul(val float64) Point {
	p.X *= val
	p.Y *= val
	return p
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	return p
}

// Lerp will return the point t of the way from p to the target,
// where t runs from 0 (p) to 1 (target).
func (p Point) Lerp(target Point, t float64) Point {
	p.X += (target.X - p.X) * t
	p.Y += (target.Y - p.Y) * t
	return p
}

// Distance will return the straight-line distance from p to the target.
func (p Point) Distance(target Point) float64 {
	return math.Hypot(target.X-p.X, target.Y-p.Y)
}

// Angle will return the angle of the ray from p to the target,
// in radians from the positive X axis.
func (p Point) Angle(target Point) float64 {
	return math.Atan2(target.Y-p.Y, target.X-p.X)
}
