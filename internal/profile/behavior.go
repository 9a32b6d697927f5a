package profile

import "time"

// Quirk names a known deviation of a specific application's measurement
// behavior from the general case. The set is closed; strategies and the
// validator switch on these values.
type Quirk string

const (
	// QuirkFirstCharBounds: range queries that include the first character
	// of a line return the bounds of the whole line.
	QuirkFirstCharBounds Quirk = "first-char-bounds"

	// QuirkStaleAfterFocus: geometry reads right after a focus change return
	// the previous element's bounds for a short window.
	QuirkStaleAfterFocus Quirk = "stale-after-focus"

	// QuirkZeroWidthRange: range queries succeed but report zero width.
	QuirkZeroWidthRange Quirk = "zero-width-range"

	// QuirkLineHeightPercent: reported heights are off by a fixed percentage
	// of the line height.
	QuirkLineHeightPercent Quirk = "line-height-percent"

	// QuirkFixedYOffset: all reported bounds are shifted vertically by a
	// constant number of points.
	QuirkFixedYOffset Quirk = "fixed-y-offset"

	// QuirkUnreliableRangeQuery: the direct range query returns plausible
	// but wrong values; neighbor or caret probing should be preferred.
	QuirkUnreliableRangeQuery Quirk = "unreliable-range-query"

	// QuirkBlockEditor: text lives in separate block elements with no flat
	// document view.
	QuirkBlockEditor Quirk = "block-editor"

	// QuirkTerminalGrid: the target renders a fixed character grid, making
	// line/column arithmetic exact.
	QuirkTerminalGrid Quirk = "terminal-grid"
)

// Behavior is the per-application configuration the resolver runs under.
// Instances are created once (builtin table, override file, or derived by
// the profiler) and never mutated; re-probing replaces them wholesale.
type Behavior struct {
	AppID string

	// Quirks holds the known deviations of this application.
	Quirks []Quirk

	// StrategyOrder lists strategy names to try first, in order. Strategies
	// not listed follow in default tier order.
	StrategyOrder []string

	// TypingDebounce is the quiet period after the last keystroke before
	// resolution resumes. Zero means the gate's default.
	TypingDebounce time.Duration

	// StabilizationDelay is how long after a focus change measurements are
	// rejected, for apps with QuirkStaleAfterFocus.
	StabilizationDelay time.Duration

	// LineHeightScale multiplies measured heights when nonzero, correcting
	// QuirkLineHeightPercent targets.
	LineHeightScale float64

	// YOffset is added to measured Y positions, correcting QuirkFixedYOffset
	// targets. Points, query coordinates.
	YOffset float64

	// RequireTypingPause suppresses resolution entirely while the user is
	// typing in this application.
	RequireTypingPause bool

	// UnderlinesEnabled reports whether per-line underline segments should
	// be drawn for this application at all.
	UnderlinesEnabled bool
}

// Has reports whether the behavior carries the given quirk.
func (b Behavior) Has(q Quirk) bool {
	for _, have := range b.Quirks {
		if have == q {
			return true
		}
	}
	return false
}

// ConservativeDefault is the profile used when nothing is known about an
// application: estimate only, draw nothing, and stay out of the way while
// the user types.
func ConservativeDefault(appID string) Behavior {
	return Behavior{
		AppID:              appID,
		StrategyOrder:      []string{"font-metrics"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  false,
	}
}
