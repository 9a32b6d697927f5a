package resolve

import (
	"sort"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// Strategy names, referenced by profiles and persisted probe results.
const (
	StrategyRangeBounds         = "range-bounds"
	StrategyTextMarker          = "text-marker"
	StrategyLineIndex           = "line-index"
	StrategyElementTree         = "element-tree"
	StrategyInsertionPoint      = "insertion-point"
	StrategyNeighborChar        = "neighbor-char"
	StrategyFrameworkCorrection = "framework-correction"
	StrategyOriginRelative      = "origin-relative"
	StrategyFontMetrics         = "font-metrics"
)

// MinConfidence is the floor below which a measurement is treated the same
// as no measurement at all.
const MinConfidence = 0.5

// Measurement is a strategy's raw output: one rectangle per visual line in
// query coordinates, plus the strategy's own reliability estimate.
type Measurement struct {
	Lines      []geometry.Rect
	Confidence float64
}

// Strategy is one independently implemented technique for measuring where a
// text range renders on screen. The set is closed; instances are stateless
// and shared across calls.
type Strategy interface {
	Name() string

	// Tier and TierPriority order strategies a profile does not mention:
	// lower tier first, then lower priority within the tier.
	Tier() int
	TierPriority() int

	// CanHandle is a cheap capability test; it must not issue measurement
	// calls against the target.
	CanHandle(el platform.TextElement, appID string) bool

	// Measure returns the geometry of the range, or nil when the technique
	// does not apply to this particular input. Errors are local: they
	// disqualify the strategy for this call only.
	Measure(rng TextRange, el platform.TextElement, text string, b profile.Behavior) (*Measurement, error)
}

// DefaultStrategies returns the full closed set, one instance per variant.
func DefaultStrategies() []Strategy {
	return []Strategy{
		&rangeBoundsStrategy{},
		&textMarkerStrategy{},
		&lineIndexStrategy{},
		&elementTreeStrategy{},
		&insertionPointStrategy{},
		&neighborCharStrategy{},
		&frameworkCorrectionStrategy{},
		&originRelativeStrategy{},
		&fontMetricsStrategy{},
	}
}

// orderStrategies arranges strategies so that those named in the profile
// order come first, in that order, followed by the rest in default tier
// order. Names the profile lists but no strategy carries are ignored. The
// result is deterministic for a given input.
func orderStrategies(all []Strategy, preferred []string) []Strategy {
	byName := make(map[string]Strategy, len(all))
	for _, s := range all {
		byName[s.Name()] = s
	}

	ordered := make([]Strategy, 0, len(all))
	used := make(map[string]bool, len(all))
	for _, name := range preferred {
		if s, ok := byName[name]; ok && !used[name] {
			ordered = append(ordered, s)
			used[name] = true
		}
	}

	rest := make([]Strategy, 0, len(all))
	for _, s := range all {
		if !used[s.Name()] {
			rest = append(rest, s)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Tier() != rest[j].Tier() {
			return rest[i].Tier() < rest[j].Tier()
		}
		return rest[i].TierPriority() < rest[j].TierPriority()
	})

	return append(ordered, rest...)
}
