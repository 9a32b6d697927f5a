package resolve

import (
	"fmt"
	"strings"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// fakeElement satisfies only the base TextElement interface; capability
// interfaces come from the wrapper types below.
type fakeElement struct {
	frame   geometry.Rect
	visible geometry.Rect
	metrics platform.FontMetrics
}

func (e *fakeElement) Role() string         { return "textarea" }
func (e *fakeElement) Frame() geometry.Rect { return e.frame }

// FontMetrics keeps strategy arithmetic on round numbers in tests.
func (e *fakeElement) FontMetrics() (platform.FontMetrics, error) {
	if e.metrics.LineHeight == 0 {
		return platform.FontMetrics{LineHeight: 16, CharWidth: 8, Ascent: 12}, nil
	}
	return e.metrics, nil
}
func (e *fakeElement) VisibleFrame() geometry.Rect {
	if e.visible.IsEmpty() {
		return e.frame
	}
	return e.visible
}

func newFakeElement() *fakeElement {
	return &fakeElement{frame: geometry.Rect{X: 100, Y: 100, Width: 600, Height: 400}}
}

// rangeElement adds a direct range query backed by a function.
type rangeElement struct {
	*fakeElement
	bounds func(start, end int) (geometry.Rect, error)
	calls  int
}

func (e *rangeElement) BoundsForRange(start, end int) (geometry.Rect, error) {
	e.calls++
	return e.bounds(start, end)
}

// lineRangeElement adds line mapping over hard breaks in text, plus the
// range query.
type lineRangeElement struct {
	*rangeElement
	text string
}

func (e *lineRangeElement) lineRanges() [][2]int {
	var out [][2]int
	start := 0
	runes := []rune(e.text)
	for i, r := range runes {
		if r == '\n' {
			out = append(out, [2]int{start, i})
			start = i + 1
		}
	}
	out = append(out, [2]int{start, len(runes)})
	return out
}

func (e *lineRangeElement) LineForIndex(index int) (int, error) {
	for i, lr := range e.lineRanges() {
		if index <= lr[1] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("index %d out of range", index)
}

func (e *lineRangeElement) RangeForLine(line int) (int, int, error) {
	ranges := e.lineRanges()
	if line < 0 || line >= len(ranges) {
		return 0, 0, fmt.Errorf("line %d out of range", line)
	}
	return ranges[line][0], ranges[line][1], nil
}

// gridBounds measures like a fixed character grid anchored at the element
// frame, for predictable expectations.
func gridBounds(el *fakeElement, text string, cw, lh float64) func(start, end int) (geometry.Rect, error) {
	return func(start, end int) (geometry.Rect, error) {
		line, col := lineColumn(start, text)
		return geometry.Rect{
			X:      el.frame.X + float64(col)*cw,
			Y:      el.frame.Y + float64(line)*lh,
			Width:  float64(end-start) * cw,
			Height: lh,
		}, nil
	}
}

// caretElement implements CaretController over a grid layout.
type caretElement struct {
	*fakeElement
	text     string
	cw, lh   float64
	caret    int
	setErrAt int // SetCaretIndex fails when moving to this index (-1 = never)
	history  []int
}

func newCaretElement(text string) *caretElement {
	return &caretElement{fakeElement: newFakeElement(), text: text, cw: 8, lh: 16, setErrAt: -1}
}

func (e *caretElement) CaretIndex() (int, error) { return e.caret, nil }

func (e *caretElement) SetCaretIndex(index int) error {
	if e.setErrAt >= 0 && index == e.setErrAt {
		return fmt.Errorf("cannot move caret to %d", index)
	}
	e.caret = index
	e.history = append(e.history, index)
	return nil
}

func (e *caretElement) CaretBounds() (geometry.Rect, error) {
	line, col := lineColumn(e.caret, e.text)
	return geometry.Rect{
		X:      e.frame.X + float64(col)*e.cw,
		Y:      e.frame.Y + float64(line)*e.lh,
		Width:  1,
		Height: e.lh,
	}, nil
}

// charElement implements CharQuerier over a grid layout.
type charElement struct {
	*fakeElement
	text   string
	cw, lh float64
}

func (e *charElement) CharacterBounds(index int) (geometry.Rect, error) {
	runes := []rune(e.text)
	if index < 0 || index >= len(runes) {
		return geometry.Rect{}, fmt.Errorf("char %d out of range", index)
	}
	line, col := lineColumn(index, e.text)
	return geometry.Rect{
		X:      e.frame.X + float64(col)*e.cw,
		Y:      e.frame.Y + float64(line)*e.lh,
		Width:  e.cw,
		Height: e.lh,
	}, nil
}

// blockElement implements BlockContainer.
type blockElement struct {
	*fakeElement
	blocks []platform.TextBlock
}

func (e *blockElement) TextBlocks() ([]platform.TextBlock, error) { return e.blocks, nil }

// originElement implements OriginAnchor.
type originElement struct {
	*fakeElement
	origin geometry.Rect
}

func (e *originElement) TextOrigin() (geometry.Rect, error) { return e.origin, nil }

// markerElement implements MarkerQuerier.
type markerElement struct {
	*fakeElement
	bounds func(start, end int) (geometry.Rect, error)
}

func (e *markerElement) MarkerBoundsForRange(start, end int) (geometry.Rect, error) {
	return e.bounds(start, end)
}

// stubStrategy is a scriptable strategy for resolver tests.
type stubStrategy struct {
	name      string
	tier      int
	pri       int
	canHandle bool
	m         *Measurement
	err       error
	calls     int
	log       *[]string
}

func (s *stubStrategy) Name() string      { return s.name }
func (s *stubStrategy) Tier() int         { return s.tier }
func (s *stubStrategy) TierPriority() int { return s.pri }

func (s *stubStrategy) CanHandle(el platform.TextElement, appID string) bool {
	return s.canHandle
}

func (s *stubStrategy) Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error) {
	s.calls++
	if s.log != nil {
		*s.log = append(*s.log, s.name)
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.m == nil {
		return nil, nil
	}
	cp := *s.m
	cp.Lines = append([]geometry.Rect(nil), s.m.Lines...)
	return &cp, nil
}

func okStub(name string, conf float64, lines ...geometry.Rect) *stubStrategy {
	if len(lines) == 0 {
		lines = []geometry.Rect{{X: 120, Y: 150, Width: 80, Height: 16}}
	}
	return &stubStrategy{name: name, tier: 1, pri: 1, canHandle: true, m: &Measurement{Lines: lines, Confidence: conf}}
}

func textWithLines(lines ...string) string { return strings.Join(lines, "\n") }
