package resolve

import "github.com/textwarden/anchor/internal/geometry"

// TextRange is a half-open span [Start, End) of rune offsets into a text
// snapshot. Start must not exceed End.
type TextRange struct {
	Start uint `yaml:"start" json:"start"`
	End   uint `yaml:"end" json:"end"`
}

// Len returns the number of runes covered.
func (r TextRange) Len() uint { return r.End - r.Start }

// Valid reports whether the range is well-formed within a text of the given
// rune length.
func (r TextRange) Valid(textLen int) bool {
	return r.Start <= r.End && int(r.End) <= textLen
}

// Unavailability reasons surfaced in GeometryResult.Reason.
const (
	ReasonTyping       = "typing"
	ReasonExhausted    = "exhausted"
	ReasonInvalidRange = "invalid range"
)

// GeometryResult is the outcome of one resolution call. When Unavailable is
// set, the rectangles are meaningless and must not be drawn.
type GeometryResult struct {
	// BoundsPrimary anchors popups: the rectangle of the last line of the
	// range, in render coordinates (bottom-left origin, Y-up).
	BoundsPrimary geometry.Rect `yaml:"primary" json:"primary"`

	// AllLineBounds holds one rectangle per visual line, in order, render
	// coordinates. Consumers draw underline segments from these.
	AllLineBounds []geometry.Rect `yaml:"lines" json:"lines"`

	// HitTest is the union of all line rectangles expanded by an
	// underline-thickness-dependent margin, for pointer hit testing.
	HitTest geometry.Rect `yaml:"hitTest" json:"hitTest"`

	// Confidence is the winning strategy's self-reported reliability in [0,1].
	Confidence float64 `yaml:"confidence" json:"confidence"`

	// Strategy names the technique that produced the bounds.
	Strategy string `yaml:"strategy,omitempty" json:"strategy,omitempty"`

	Unavailable bool   `yaml:"unavailable,omitempty" json:"unavailable,omitempty"`
	Reason      string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Unavailable builds the terminal "no position" result.
func Unavailable(reason string) GeometryResult {
	return GeometryResult{Unavailable: true, Reason: reason}
}
