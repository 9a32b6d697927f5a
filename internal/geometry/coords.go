package geometry

// Accessibility queries report geometry with the origin at the top-left of
// the display and Y increasing downward. The rendering layer draws with the
// origin at the bottom-left and Y increasing upward. Converting between the
// two flips Y around the height of the display that defines the origin —
// not the "main" display, which may be a different height in multi-monitor
// arrangements.

// ToRenderCoordinates converts a rect from query space (top-left origin,
// Y-down) to render space (bottom-left origin, Y-up) for a display of the
// given height.
func ToRenderCoordinates(r Rect, displayHeight float64) Rect {
	return Rect{
		X:      r.X,
		Y:      displayHeight - r.Y - r.Height,
		Width:  r.Width,
		Height: r.Height,
	}
}

// ToQueryCoordinates converts a rect from render space back to query space.
// It is the inverse of ToRenderCoordinates for the same display height.
func ToQueryCoordinates(r Rect, displayHeight float64) Rect {
	// The flip is an involution; naming both directions keeps call sites honest.
	return ToRenderCoordinates(r, displayHeight)
}
