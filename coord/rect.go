package coord

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// RectAt will return the zero-size Rect containing only p.
func RectAt(p Point) Rect {
	return Rect{Min: p, Max: p}
}

// Expand will grow r just enough to contain p.
func (r Rect) Expand(p Point) Rect {
	if p.X < r.Min.X {
		r.Min.X = p.X
	}
	if p.X > r.Max.X {
		r.Max.X = p.X
	}
	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	}
	if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}
	return r
}

// Pad will widen any axis with near-zero extent so the
// result is always usable for scaling.
func (r Rect) Pad() Rect {
	const flat = 1e-6
	if r.Max.X-r.Min.X < flat {
		r.Max.X += 1
	}
	if r.Max.Y-r.Min.Y < flat {
		r.Max.Y += 1
	}
	return r
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
