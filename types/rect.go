package types

// Rect represents an axis-aligned rectangle in 2D space.
//
// The bounds are inclusive on all sides. A Rect is valid when
// Min.X <= Max.X and Min.Y <= Max.Y. Empty or inverted rectangles
// should be handled explicitly by the caller.
//
// Example:
//
//	box := types.Rect{
//	    Min: types.Point{X: 0.0, Y: 0.0},
//	    Max: types.Point{X: 10.0, Y: 10.0},
//	}
type Rect struct {
	Min Point // Minimum (bottom-left) corner, inclusive
	Max Point // Maximum (top-right) corner, inclusive
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Contains reports whether (x, y) lies inside or on the boundary.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}

// Extend grows the rectangle to include (x, y).
func (r Rect) Extend(x, y float64) Rect {
	if x < r.Min.X {
		r.Min.X = x
	}
	if x > r.Max.X {
		r.Max.X = x
	}
	if y < r.Min.Y {
		r.Min.Y = y
	}
	if y > r.Max.Y {
		r.Max.Y = y
	}
	return r
}

// Buffered returns a copy expanded by pct percent of the larger dimension on
// every side. Negative percentages are treated as zero.
func (r Rect) Buffered(pct float64) Rect {
	if pct <= 0 {
		return r
	}
	d := r.Width()
	if h := r.Height(); h > d {
		d = h
	}
	m := d * pct / 100
	return Rect{
		Min: Point{X: r.Min.X - m, Y: r.Min.Y - m},
		Max: Point{X: r.Max.X + m, Y: r.Max.Y + m},
	}
}
