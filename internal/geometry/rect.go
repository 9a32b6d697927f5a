package geometry

import "math"

// Rect is a screen rectangle in points. Which coordinate convention applies
// (Y-down query space or Y-up render space) depends on where the rect came
// from; see coords.go for conversion.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"w" json:"w"`
	Height float64 `yaml:"h" json:"h"`
}

// IsFinite reports whether all four fields are finite numbers.
func (r Rect) IsFinite() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the rect has no positive area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge in query space (or top edge in render space).
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Intersects reports whether two rects overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Union returns the smallest rect covering both r and o.
// An empty rect contributes nothing.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Max(r.MaxX(), o.MaxX()) - x,
		Height: math.Max(r.MaxY(), o.MaxY()) - y,
	}
}

// Expand grows the rect by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// OffsetBy returns the rect translated by (dx, dy).
func (r Rect) OffsetBy(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// UnionAll folds Union over a list of rects.
func UnionAll(rects []Rect) Rect {
	var u Rect
	for _, r := range rects {
		u = u.Union(r)
	}
	return u
}
