package resolve

import (
	"errors"
	"fmt"
	"time"

	"github.com/textwarden/anchor/internal/geometry"
)

// errInvalidBounds marks geometry rejected by the validator. It never leaves
// the resolver; the failing strategy is simply skipped.
var errInvalidBounds = errors.New("invalid bounds")

// maxSaneLineHeight is the cap above which a reported line height indicates
// corrupted metrics rather than a very large font.
const maxSaneLineHeight = 300.0

// BoundsValidator rejects implausible geometry before it can mislead the
// overlay: non-finite values, degenerate sizes, absurd line heights, and
// rectangles that miss the element's visible region entirely.
type BoundsValidator struct {
	// MaxLineHeight overrides maxSaneLineHeight when positive.
	MaxLineHeight float64
}

// Validate checks a single line rectangle against the visible region of the
// target element, both in query coordinates.
func (v *BoundsValidator) Validate(line geometry.Rect, visible geometry.Rect) error {
	if !line.IsFinite() {
		return fmt.Errorf("%w: non-finite coordinates", errInvalidBounds)
	}
	if line.Width <= 0 || line.Height <= 0 {
		return fmt.Errorf("%w: non-positive size %gx%g", errInvalidBounds, line.Width, line.Height)
	}
	limit := v.MaxLineHeight
	if limit <= 0 {
		limit = maxSaneLineHeight
	}
	if line.Height > limit {
		return fmt.Errorf("%w: line height %g exceeds cap %g", errInvalidBounds, line.Height, limit)
	}
	if !visible.IsEmpty() && !line.Intersects(visible) {
		return fmt.Errorf("%w: outside visible region", errInvalidBounds)
	}
	return nil
}

// ValidateAll applies Validate to every line rectangle.
func (v *BoundsValidator) ValidateAll(lines []geometry.Rect, visible geometry.Rect) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: no line rectangles", errInvalidBounds)
	}
	for i, line := range lines {
		if err := v.Validate(line, visible); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}

// Stabilized reports whether enough time has passed since a focus change for
// readings to be trusted. Targets flagged with the stale-after-focus quirk
// report the previous element's geometry during this window.
func (v *BoundsValidator) Stabilized(focusedAt time.Time, delay time.Duration, now time.Time) bool {
	if delay <= 0 || focusedAt.IsZero() {
		return true
	}
	return now.Sub(focusedAt) >= delay
}
