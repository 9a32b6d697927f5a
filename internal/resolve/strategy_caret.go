package resolve

import (
	"fmt"
	"math"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// withCaretRestored runs fn with the caret free to move, then puts it back
// where the user left it. Restoration happens on every exit path, including
// panics inside fn; the caret is shared UI state in another process and must
// never be left displaced past the call boundary.
func withCaretRestored(cc platform.CaretController, fn func() error) error {
	original, err := cc.CaretIndex()
	if err != nil {
		return fmt.Errorf("read caret: %w", err)
	}
	defer cc.SetCaretIndex(original)
	return fn()
}

// insertionPointStrategy temporarily relocates the insertion point to the
// ends of the range and reads the caret rectangle at each, reconstructing
// line rectangles from the two probes. Slower and visibly intrusive if the
// target repaints the caret, but works in editors whose range queries lie.
type insertionPointStrategy struct{}

func (s *insertionPointStrategy) Name() string      { return StrategyInsertionPoint }
func (s *insertionPointStrategy) Tier() int         { return 2 }
func (s *insertionPointStrategy) TierPriority() int { return 3 }

func (s *insertionPointStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.CaretController)
	return ok
}

func (s *insertionPointStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	cc, ok := el.(platform.CaretController)
	if !ok {
		return nil, nil
	}

	var startRect, endRect geometry.Rect
	err := withCaretRestored(cc, func() error {
		if err := cc.SetCaretIndex(int(rng.Start)); err != nil {
			return fmt.Errorf("move caret to %d: %w", rng.Start, err)
		}
		r, err := cc.CaretBounds()
		if err != nil {
			return fmt.Errorf("caret bounds at %d: %w", rng.Start, err)
		}
		startRect = r

		if err := cc.SetCaretIndex(int(rng.End)); err != nil {
			return fmt.Errorf("move caret to %d: %w", rng.End, err)
		}
		r, err = cc.CaretBounds()
		if err != nil {
			return fmt.Errorf("caret bounds at %d: %w", rng.End, err)
		}
		endRect = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	lines := spanBetweenCarets(startRect, endRect, el.Frame())
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.75}, nil
}

// spanBetweenCarets reconstructs line rectangles from caret probes at the
// two ends of a range. Same line: one rect between the carets. Different
// lines: first line runs to the element's right edge, last line starts at
// its left edge, with full-width rows for any lines in between.
func spanBetweenCarets(start, end, frame geometry.Rect) []geometry.Rect {
	h := math.Max(start.Height, end.Height)
	if h <= 0 {
		return nil
	}
	sameLine := math.Abs(start.Y-end.Y) < h/2
	if sameLine {
		if end.X < start.X {
			return nil
		}
		return []geometry.Rect{{X: start.X, Y: start.Y, Width: end.X - start.X, Height: h}}
	}

	lines := []geometry.Rect{{X: start.X, Y: start.Y, Width: frame.MaxX() - start.X, Height: start.Height}}
	for y := start.Y + h; y < end.Y-h/2; y += h {
		lines = append(lines, geometry.Rect{X: frame.X, Y: y, Width: frame.Width, Height: h})
	}
	lines = append(lines, geometry.Rect{X: frame.X, Y: end.Y, Width: end.X - frame.X, Height: end.Height})
	return lines
}

// neighborCharStrategy anchors on single-character bounds at both ends of
// the range, for targets where multi-character queries return garbage but
// individual characters measure correctly.
type neighborCharStrategy struct{}

func (s *neighborCharStrategy) Name() string      { return StrategyNeighborChar }
func (s *neighborCharStrategy) Tier() int         { return 3 }
func (s *neighborCharStrategy) TierPriority() int { return 1 }

func (s *neighborCharStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.CharQuerier)
	return ok
}

func (s *neighborCharStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	cq, ok := el.(platform.CharQuerier)
	if !ok {
		return nil, nil
	}
	if rng.Len() == 0 {
		return nil, nil
	}

	var lines []geometry.Rect
	for _, sp := range lineSpans(rng, el, text) {
		if sp.end <= sp.start {
			continue
		}
		first, err := cq.CharacterBounds(sp.start)
		if err != nil {
			return nil, fmt.Errorf("char bounds at %d: %w", sp.start, err)
		}
		last, err := cq.CharacterBounds(sp.end - 1)
		if err != nil {
			return nil, fmt.Errorf("char bounds at %d: %w", sp.end-1, err)
		}
		lines = append(lines, first.Union(last))
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.65}, nil
}
