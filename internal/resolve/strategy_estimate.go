package resolve

import (
	"fmt"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// lineIndexStrategy converts rune offsets to line/column positions through
// the target's line mapping, then multiplies out by font metrics. Exact on
// character-grid targets (terminals); an approximation elsewhere.
type lineIndexStrategy struct{}

func (s *lineIndexStrategy) Name() string      { return StrategyLineIndex }
func (s *lineIndexStrategy) Tier() int         { return 2 }
func (s *lineIndexStrategy) TierPriority() int { return 1 }

func (s *lineIndexStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.LineQuerier)
	return ok
}

func (s *lineIndexStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	lq, ok := el.(platform.LineQuerier)
	if !ok {
		return nil, nil
	}
	metrics := metricsFor(el)
	frame := el.Frame()

	var lines []geometry.Rect
	for _, sp := range lineSpans(rng, el, text) {
		line, err := lq.LineForIndex(sp.start)
		if err != nil {
			return nil, fmt.Errorf("line for index %d: %w", sp.start, err)
		}
		lineStart, _, err := lq.RangeForLine(line)
		if err != nil {
			return nil, fmt.Errorf("range for line %d: %w", line, err)
		}
		col := sp.start - lineStart
		lines = append(lines, geometry.Rect{
			X:      frame.X + float64(col)*metrics.CharWidth,
			Y:      frame.Y + float64(line)*metrics.LineHeight,
			Width:  float64(sp.end-sp.start) * metrics.CharWidth,
			Height: metrics.LineHeight,
		})
	}
	if len(lines) == 0 {
		return nil, nil
	}

	conf := 0.7
	if b.Has(profile.QuirkTerminalGrid) {
		// Fixed-pitch grid makes the arithmetic exact.
		conf = 0.85
	}
	return &Measurement{Lines: lines, Confidence: conf}, nil
}

// elementTreeStrategy handles block-structured editors with no flat text
// view: it walks the block children, finds the blocks the range falls in,
// and positions within each block's own frame. Block texts are joined by an
// implied newline when mapping document offsets.
type elementTreeStrategy struct{}

func (s *elementTreeStrategy) Name() string      { return StrategyElementTree }
func (s *elementTreeStrategy) Tier() int         { return 2 }
func (s *elementTreeStrategy) TierPriority() int { return 2 }

func (s *elementTreeStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.BlockContainer)
	return ok
}

func (s *elementTreeStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	bc, ok := el.(platform.BlockContainer)
	if !ok {
		return nil, nil
	}
	blocks, err := bc.TextBlocks()
	if err != nil {
		return nil, fmt.Errorf("text blocks: %w", err)
	}
	metrics := metricsFor(el)

	var lines []geometry.Rect
	offset := 0
	for _, blk := range blocks {
		blkLen := len([]rune(blk.Text))
		blkStart, blkEnd := offset, offset+blkLen
		offset = blkEnd + 1

		s0, e0 := int(rng.Start), int(rng.End)
		if e0 <= blkStart || s0 >= blkEnd {
			continue
		}
		if s0 < blkStart {
			s0 = blkStart
		}
		if e0 > blkEnd {
			e0 = blkEnd
		}
		lines = append(lines, blockSpanRects(blk, s0-blkStart, e0-blkStart, metrics)...)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.7}, nil
}

// blockSpanRects positions a sub-range inside one block frame by line and
// column arithmetic over the block's own text.
func blockSpanRects(blk platform.TextBlock, start, end int, metrics platform.FontMetrics) []geometry.Rect {
	var rects []geometry.Rect
	for _, sp := range lineSpansByText(start, end, blk.Text) {
		line, col := lineColumn(sp.start, blk.Text)
		rects = append(rects, geometry.Rect{
			X:      blk.Frame.X + float64(col)*metrics.CharWidth,
			Y:      blk.Frame.Y + float64(line)*metrics.LineHeight,
			Width:  float64(sp.end-sp.start) * metrics.CharWidth,
			Height: metrics.LineHeight,
		})
	}
	return rects
}

// originRelativeStrategy positions by offset arithmetic anchored at the
// measured bounds of the first character, which many targets report
// correctly even when arbitrary range queries fail.
type originRelativeStrategy struct{}

func (s *originRelativeStrategy) Name() string      { return StrategyOriginRelative }
func (s *originRelativeStrategy) Tier() int         { return 3 }
func (s *originRelativeStrategy) TierPriority() int { return 3 }

func (s *originRelativeStrategy) CanHandle(el platform.TextElement, appID string) bool {
	_, ok := el.(platform.OriginAnchor)
	return ok
}

func (s *originRelativeStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	oa, ok := el.(platform.OriginAnchor)
	if !ok {
		return nil, nil
	}
	origin, err := oa.TextOrigin()
	if err != nil {
		return nil, fmt.Errorf("text origin: %w", err)
	}
	metrics := metricsFor(el)
	if origin.Height > 0 {
		metrics.LineHeight = origin.Height
	}
	if origin.Width > 0 {
		metrics.CharWidth = origin.Width
	}

	lines := estimateLines(rng, text, origin.X, origin.Y, metrics)
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: 0.55}, nil
}

// fontMetricsStrategy is the last resort: pure estimation from the element
// frame and font metrics, blind to scrolling and soft wrapping. Its
// confidence sits exactly at the acceptance floor so it only wins when
// every measured technique is out.
type fontMetricsStrategy struct{}

func (s *fontMetricsStrategy) Name() string      { return StrategyFontMetrics }
func (s *fontMetricsStrategy) Tier() int         { return 4 }
func (s *fontMetricsStrategy) TierPriority() int { return 1 }

func (s *fontMetricsStrategy) CanHandle(el platform.TextElement, appID string) bool {
	return true
}

func (s *fontMetricsStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	frame := el.Frame()
	metrics := metricsFor(el)

	// Typical text container padding.
	const inset = 4.0
	lines := estimateLines(rng, text, frame.X+inset, frame.Y+inset, metrics)
	if len(lines) == 0 {
		return nil, nil
	}
	return &Measurement{Lines: lines, Confidence: MinConfidence}, nil
}

// estimateLines lays out a range by counting hard line breaks from a known
// top-left text origin.
func estimateLines(rng TextRange, text string, originX, originY float64, metrics platform.FontMetrics) []geometry.Rect {
	var lines []geometry.Rect
	for _, sp := range lineSpansByText(int(rng.Start), int(rng.End), text) {
		line, col := lineColumn(sp.start, text)
		lines = append(lines, geometry.Rect{
			X:      originX + float64(col)*metrics.CharWidth,
			Y:      originY + float64(line)*metrics.LineHeight,
			Width:  float64(sp.end-sp.start) * metrics.CharWidth,
			Height: metrics.LineHeight,
		})
	}
	return lines
}
