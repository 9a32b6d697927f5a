package resolve

import "github.com/textwarden/anchor/internal/geometry"

// DefaultUnderlineThickness is the drawn underline height in points.
const DefaultUnderlineThickness = 2.0

// MultiLineMerger combines per-line rectangles into the shapes consumers
// need: the popup anchor, the ordered underline segments, and a hit-test
// rectangle expanded so a pointer can reach a thin underline comfortably.
type MultiLineMerger struct {
	// UnderlineThickness drives the hit-test margin. Zero means the default.
	UnderlineThickness float64
}

// hitMargin derives the expansion margin from the underline thickness: the
// thinner the underline, the proportionally larger the slack around it.
func (m *MultiLineMerger) hitMargin() float64 {
	t := m.UnderlineThickness
	if t <= 0 {
		t = DefaultUnderlineThickness
	}
	return 2 * t
}

// Merge returns the last line as the primary anchor rectangle, the full
// ordered line list, and the expanded union for hit testing. The input must
// be non-empty and in reading order.
func (m *MultiLineMerger) Merge(lines []geometry.Rect) (primary geometry.Rect, all []geometry.Rect, hit geometry.Rect) {
	if len(lines) == 0 {
		return geometry.Rect{}, nil, geometry.Rect{}
	}
	all = make([]geometry.Rect, len(lines))
	copy(all, lines)
	primary = all[len(all)-1]
	hit = geometry.UnionAll(all).Expand(m.hitMargin())
	return primary, all, hit
}
