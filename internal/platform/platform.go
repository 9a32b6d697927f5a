package platform

import "github.com/textwarden/anchor/internal/geometry"

// TextElement is an opaque handle to a text-bearing UI element in another
// process's accessibility tree. The engine only requires the base methods;
// individual measurement capabilities are discovered by asserting the
// capability interfaces below.
type TextElement interface {
	// Role returns the accessibility role of the element (e.g. "textarea").
	Role() string

	// Frame returns the element's bounds in query coordinates
	// (top-left origin, Y-down).
	Frame() geometry.Rect

	// VisibleFrame returns the portion of the element currently on screen,
	// in query coordinates. May equal Frame for fully visible elements.
	VisibleFrame() geometry.Rect
}

// RangeQuerier measures the on-screen bounds of a character range directly.
type RangeQuerier interface {
	// BoundsForRange returns the bounds of [start, end) in query coordinates.
	BoundsForRange(start, end int) (geometry.Rect, error)
}

// LineQuerier maps between character offsets and visual line numbers.
type LineQuerier interface {
	// LineForIndex returns the zero-based visual line containing the offset.
	LineForIndex(index int) (int, error)

	// RangeForLine returns the character range [start, end) of a visual line.
	RangeForLine(line int) (start, end int, err error)
}

// MarkerQuerier measures ranges via the target's text-marker API, which some
// applications implement correctly where the plain range query is broken.
type MarkerQuerier interface {
	MarkerBoundsForRange(start, end int) (geometry.Rect, error)
}

// CaretController reads and moves the element's insertion point. Moving the
// caret mutates shared UI state in the target process; callers must restore
// the original position before returning.
type CaretController interface {
	CaretIndex() (int, error)
	SetCaretIndex(index int) error

	// CaretBounds returns the bounds of the insertion point at its current
	// position, in query coordinates.
	CaretBounds() (geometry.Rect, error)
}

// CharQuerier measures individual characters, for targets where multi-char
// range queries return garbage but single characters are reliable.
type CharQuerier interface {
	CharacterBounds(index int) (geometry.Rect, error)
}

// TextBlock is one block of a block-structured editor (a paragraph, list
// item, or code cell) with its own frame.
type TextBlock struct {
	Text  string
	Frame geometry.Rect
}

// BlockContainer exposes the block children of editors that do not present a
// single flat text view.
type BlockContainer interface {
	TextBlocks() ([]TextBlock, error)
}

// FontMetrics describes the rendered font of a text element.
type FontMetrics struct {
	LineHeight float64
	CharWidth  float64
	Ascent     float64
}

// FontMetricsProvider reports the font metrics of the element's text, when
// the target exposes them.
type FontMetricsProvider interface {
	FontMetrics() (FontMetrics, error)
}

// OriginAnchor reports the measured position of the first character of the
// element's text, usable as a reliable anchor for offset arithmetic.
type OriginAnchor interface {
	TextOrigin() (geometry.Rect, error)
}

// Bridge locates the focused text element of a target application and
// snapshots its text.
type Bridge interface {
	// FocusedTextElement returns the element, its current text, and the
	// stable application identifier that owns it.
	FocusedTextElement(opts TargetOptions) (TextElement, string, string, error)
}

// ActivityEventKind distinguishes observed user activity.
type ActivityEventKind int

const (
	ActivityKeystroke ActivityEventKind = iota
	ActivityFocusChange
)

// ActivityEvent is one observed keystroke or focus change in a target app.
type ActivityEvent struct {
	AppID string
	Kind  ActivityEventKind
}

// ActivityMonitor streams keystroke and focus-change events for monitored
// applications. Delivery must happen on the same goroutine that issues
// resolution calls, so a resolution never races a keystroke that would
// invalidate its own result.
type ActivityMonitor interface {
	// Subscribe registers fn for events from the given app. The returned
	// cancel function stops delivery.
	Subscribe(appID string, fn func(ActivityEvent)) (func(), error)
}

// DisplayOracle answers which display height applies to a rect, for Y-axis
// conversion. The height must belong to the display defining the coordinate
// origin of the rect, which on multi-monitor systems is not necessarily the
// main display.
type DisplayOracle interface {
	HeightForRect(r geometry.Rect) float64
}

// FixedDisplay is a DisplayOracle for a single display of known height.
type FixedDisplay float64

// HeightForRect returns the fixed height regardless of the rect.
func (h FixedDisplay) HeightForRect(geometry.Rect) float64 { return float64(h) }
