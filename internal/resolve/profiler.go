package resolve

import (
	"fmt"
	"time"
	"unicode"

	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// Profiler derives a capability profile for an application the builtin
// table does not cover, by running one trial measurement per strategy
// against a representative element and keeping the techniques whose output
// survives validation.
type Profiler struct {
	strategies []Strategy
	validator  *BoundsValidator

	// PerProbe is the longest a single trial call may take before probing
	// stops trusting the bridge and gives up on further strategies.
	PerProbe time.Duration

	// Budget caps the whole probe run.
	Budget time.Duration

	now func() time.Time
}

// NewProfiler creates a profiler over the given strategies (nil means the
// full default set).
func NewProfiler(strategies []Strategy, validator *BoundsValidator) *Profiler {
	if strategies == nil {
		strategies = DefaultStrategies()
	}
	if validator == nil {
		validator = &BoundsValidator{}
	}
	return &Profiler{
		strategies: strategies,
		validator:  validator,
		PerProbe:   150 * time.Millisecond,
		Budget:     time.Second,
		now:        time.Now,
	}
}

// SetClock replaces the profiler's time source. Tests only.
func (p *Profiler) SetClock(now func() time.Time) { p.now = now }

// Probe runs trial measurements and derives a capability profile. It fails
// (rather than returning a partial profile) when no strategy produced a
// plausible result or the time budget ran out before any did; callers fall
// back to the conservative default.
func (p *Profiler) Probe(el platform.TextElement, text string, appID string) (profile.CapabilityProfile, error) {
	if el == nil {
		return profile.CapabilityProfile{}, fmt.Errorf("probe %s: no representative element", appID)
	}
	trial := trialRange(text)
	if trial.Len() == 0 {
		return profile.CapabilityProfile{}, fmt.Errorf("probe %s: element has no text to measure", appID)
	}

	// Probing runs without prior knowledge, so strategies see a bare profile.
	bare := profile.Behavior{AppID: appID}
	visible := el.VisibleFrame()
	started := p.now()

	var order []string
	for _, s := range orderStrategies(p.strategies, nil) {
		if p.now().Sub(started) > p.Budget {
			break
		}
		if !s.CanHandle(el, appID) {
			continue
		}
		before := p.now()
		m, err := s.Measure(trial, el, text, bare)
		if p.now().Sub(before) > p.PerProbe {
			// The bridge is stalling; stop issuing calls against it.
			break
		}
		if err != nil || m == nil || m.Confidence < MinConfidence {
			continue
		}
		if err := p.validator.ValidateAll(m.Lines, visible); err != nil {
			continue
		}
		order = append(order, s.Name())
	}

	if len(order) == 0 {
		return profile.CapabilityProfile{}, fmt.Errorf("probe %s: no strategy produced plausible bounds", appID)
	}
	return profile.CapabilityProfile{
		AppID:                    appID,
		ProbedAt:                 p.now(),
		RecommendedStrategyOrder: order,
		VisualUnderlinesEnabled:  p.underlinesViable(order),
		TextReplacementMethod:    replacementMethod(order),
	}, nil
}

// underlinesViable enables visible underlines only when a measured technique
// (tier 1 or 2) works; estimation alone would draw underlines in visibly
// wrong places.
func (p *Profiler) underlinesViable(order []string) bool {
	tiers := make(map[string]int, len(p.strategies))
	for _, s := range p.strategies {
		tiers[s.Name()] = s.Tier()
	}
	for _, name := range order {
		if t, ok := tiers[name]; ok && t <= 2 {
			return true
		}
	}
	return false
}

// replacementMethod picks how text replacement should be driven in this app,
// from most to least direct.
func replacementMethod(order []string) string {
	hasCaret := false
	for _, name := range order {
		switch name {
		case StrategyRangeBounds, StrategyTextMarker:
			return profile.ReplaceByRange
		case StrategyInsertionPoint:
			hasCaret = true
		}
	}
	if hasCaret {
		return profile.ReplaceByCaret
	}
	return profile.ReplaceByClipboard
}

// trialRange picks a representative span to probe with: the first word of
// the text, or the leading few runes when there is no word boundary.
func trialRange(text string) TextRange {
	runes := []rune(text)
	end := 0
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	if end == 0 && len(runes) > 0 {
		end = 1
	}
	const maxTrial = 12
	if end > maxTrial {
		end = maxTrial
	}
	return TextRange{Start: 0, End: uint(end)}
}
