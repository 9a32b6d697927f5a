package resolve

import "github.com/textwarden/anchor/internal/platform"

// span is a half-open rune range belonging to a single visual line.
type span struct {
	start, end int
}

// lineSpans splits a range into per-line sub-ranges. It prefers the
// target's own line mapping and falls back to scanning the text snapshot
// for hard line breaks, which cannot see soft wrapping.
func lineSpans(rng TextRange, el platform.TextElement, text string) []span {
	start, end := int(rng.Start), int(rng.End)
	if lq, ok := el.(platform.LineQuerier); ok {
		if spans, ok := lineSpansByQuery(lq, start, end); ok {
			return spans
		}
	}
	return lineSpansByText(start, end, text)
}

func lineSpansByQuery(lq platform.LineQuerier, start, end int) ([]span, bool) {
	last := end
	if last > start {
		last = end - 1
	}
	firstLine, err := lq.LineForIndex(start)
	if err != nil {
		return nil, false
	}
	lastLine, err := lq.LineForIndex(last)
	if err != nil || lastLine < firstLine {
		return nil, false
	}

	var spans []span
	for line := firstLine; line <= lastLine; line++ {
		ls, le, err := lq.RangeForLine(line)
		if err != nil || le < ls {
			return nil, false
		}
		s, e := ls, le
		if start > s {
			s = start
		}
		if end < e {
			e = end
		}
		if e < s {
			return nil, false
		}
		spans = append(spans, span{start: s, end: e})
	}
	return spans, len(spans) > 0
}

func lineSpansByText(start, end int, text string) []span {
	runes := []rune(text)
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}

	spans := []span{}
	segStart := start
	for i := start; i < end; i++ {
		if runes[i] == '\n' {
			spans = append(spans, span{start: segStart, end: i})
			segStart = i + 1
		}
	}
	spans = append(spans, span{start: segStart, end: end})
	return spans
}

// lineColumn locates a rune offset as (line, column) counting hard breaks
// in the text snapshot.
func lineColumn(offset int, text string) (line, col int) {
	runes := []rune(text)
	if offset > len(runes) {
		offset = len(runes)
	}
	for i := 0; i < offset; i++ {
		if runes[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// metricsFor returns the element's font metrics, or conservative system-font
// defaults when the target does not expose any.
func metricsFor(el platform.TextElement) platform.FontMetrics {
	if fp, ok := el.(platform.FontMetricsProvider); ok {
		if m, err := fp.FontMetrics(); err == nil && m.LineHeight > 0 && m.CharWidth > 0 {
			return m
		}
	}
	// 13pt system font approximation.
	return platform.FontMetrics{LineHeight: 16, CharWidth: 7.2, Ascent: 12.5}
}
