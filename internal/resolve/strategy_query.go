package resolve

import (
	"fmt"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// rangeBoundsStrategy asks the target directly for the bounds of each
// per-line sub-range. The most accurate technique wherever the target
// implements the query correctly.
type rangeBoundsStrategy struct{}

func (s *rangeBoundsStrategy) Name() string      { return StrategyRangeBounds }
func (s *rangeBoundsStrategy) Tier() int         { return 1 }
func (s *rangeBoundsStrategy) TierPriority() int { return 1 }

func (s *rangeBoundsStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.RangeQuerier)
	return ok
}

func (s *rangeBoundsStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	rq, ok := el.(platform.RangeQuerier)
	if !ok {
		return nil, nil
	}
	if b.Has(profile.QuirkUnreliableRangeQuery) {
		return nil, nil
	}

	var lines []geometry.Rect
	for _, sp := range lineSpans(rng, el, text) {
		rect, err := rq.BoundsForRange(sp.start, sp.end)
		if err != nil {
			return nil, fmt.Errorf("range bounds [%d,%d): %w", sp.start, sp.end, err)
		}
		if rect.Width == 0 && b.Has(profile.QuirkZeroWidthRange) {
			return nil, fmt.Errorf("range bounds [%d,%d): zero width", sp.start, sp.end)
		}
		lines = append(lines, rect)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.95}, nil
}

// textMarkerStrategy measures through the target's text-marker API. Some
// web views answer marker queries correctly while the plain range query
// reports zero-width or stale rectangles.
type textMarkerStrategy struct{}

func (s *textMarkerStrategy) Name() string      { return StrategyTextMarker }
func (s *textMarkerStrategy) Tier() int         { return 1 }
func (s *textMarkerStrategy) TierPriority() int { return 2 }

func (s *textMarkerStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.MarkerQuerier)
	return ok
}

func (s *textMarkerStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	mq, ok := el.(platform.MarkerQuerier)
	if !ok {
		return nil, nil
	}

	var lines []geometry.Rect
	for _, sp := range lineSpans(rng, el, text) {
		rect, err := mq.MarkerBoundsForRange(sp.start, sp.end)
		if err != nil {
			return nil, fmt.Errorf("marker bounds [%d,%d): %w", sp.start, sp.end, err)
		}
		lines = append(lines, rect)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.9}, nil
}

// frameworkCorrectionStrategy reuses the direct range query but compensates
// for known framework bugs recorded as quirks: whole-line rectangles when
// the range touches a line's first character, constant vertical offsets,
// and mis-scaled line heights. Without a correcting quirk it stands aside.
type frameworkCorrectionStrategy struct{}

func (s *frameworkCorrectionStrategy) Name() string      { return StrategyFrameworkCorrection }
func (s *frameworkCorrectionStrategy) Tier() int         { return 3 }
func (s *frameworkCorrectionStrategy) TierPriority() int { return 2 }

func (s *frameworkCorrectionStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.RangeQuerier)
	return ok
}

func (s *frameworkCorrectionStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	rq, ok := el.(platform.RangeQuerier)
	if !ok {
		return nil, nil
	}
	if !b.Has(profile.QuirkFirstCharBounds) && !b.Has(profile.QuirkFixedYOffset) && !b.Has(profile.QuirkLineHeightPercent) {
		return nil, nil
	}

	metrics := metricsFor(el)
	var lines []geometry.Rect
	for _, sp := range lineSpans(rng, el, text) {
		rect, err := s.measureSpan(rq, el, sp, text, b, metrics)
		if err != nil {
			return nil, err
		}
		lines = append(lines, rect)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.8}, nil
}

func (s *frameworkCorrectionStrategy) measureSpan(rq platform.RangeQuerier, el platform.TextElement, sp span, text string, b profile.Behavior, metrics platform.FontMetrics) (geometry.Rect, error) {
	start := sp.start
	firstCharBug := b.Has(profile.QuirkFirstCharBounds) && atLineStart(start, text)
	if firstCharBug && sp.end > start+1 {
		// Skip the poisoned first character, then extend the result back
		// over it by one character width.
		start++
	}

	rect, err := rq.BoundsForRange(start, sp.end)
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("corrected bounds [%d,%d): %w", start, sp.end, err)
	}
	if firstCharBug && start > sp.start {
		rect.X -= metrics.CharWidth
		rect.Width += metrics.CharWidth
	}
	if b.Has(profile.QuirkFixedYOffset) {
		rect = rect.OffsetBy(0, b.YOffset)
	}
	if b.Has(profile.QuirkLineHeightPercent) && b.LineHeightScale > 0 {
		rect.Height *= b.LineHeightScale
	}
	return rect, nil
}

// atLineStart reports whether the rune offset begins a hard line.
func atLineStart(offset int, text string) bool {
	if offset == 0 {
		return true
	}
	runes := []rune(text)
	return offset <= len(runes) && runes[offset-1] == '\n'
}
