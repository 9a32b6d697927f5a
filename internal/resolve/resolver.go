package resolve

import (
	"time"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// Extra unavailability reasons the resolver can report besides the ones in
// result.go.
const (
	ReasonNoElement   = "no element"
	ReasonStabilizing = "stabilizing"
)

// ProfileProvider supplies the behavior profile to resolve under. The
// element and text are available for providers that probe unknown apps.
type ProfileProvider interface {
	ProfileFor(appID string, el platform.TextElement, text string) profile.Behavior
}

// StaticProfiles is a fixed ProfileProvider for tests and one-off tooling.
// Unknown identifiers get the conservative default.
type StaticProfiles map[string]profile.Behavior

// ProfileFor looks up the map, ignoring the element and text.
func (p StaticProfiles) ProfileFor(appID string, el platform.TextElement, text string) profile.Behavior {
	if b, ok := p[appID]; ok {
		return b
	}
	return profile.ConservativeDefault(appID)
}

// Config assembles a Resolver. Zero fields get working defaults; Profiles
// is required.
type Config struct {
	Profiles   ProfileProvider
	Strategies []Strategy
	Gate       *TypingGate
	Validator  *BoundsValidator
	Merger     *MultiLineMerger

	// Displays converts results into render coordinates. When nil, results
	// stay in query coordinates.
	Displays platform.DisplayOracle
}

// Resolver turns a text range inside another application's UI into screen
// geometry by trying measurement strategies in profile order. Construct
// with New; the zero value is not usable.
type Resolver struct {
	profiles   ProfileProvider
	strategies []Strategy
	gate       *TypingGate
	validator  *BoundsValidator
	merger     *MultiLineMerger
	displays   platform.DisplayOracle
	now        func() time.Time
}

// New builds a Resolver from cfg.
func New(cfg Config) *Resolver {
	r := &Resolver{
		profiles:   cfg.Profiles,
		strategies: cfg.Strategies,
		gate:       cfg.Gate,
		validator:  cfg.Validator,
		merger:     cfg.Merger,
		displays:   cfg.Displays,
		now:        time.Now,
	}
	if r.strategies == nil {
		r.strategies = DefaultStrategies()
	}
	if r.gate == nil {
		r.gate = NewTypingGate()
	}
	if r.validator == nil {
		r.validator = &BoundsValidator{}
	}
	if r.merger == nil {
		r.merger = &MultiLineMerger{}
	}
	return r
}

// Gate exposes the resolver's typing gate so the activity feed can be wired
// to it.
func (r *Resolver) Gate() *TypingGate { return r.gate }

// SetClock replaces the resolver's time source. Tests only.
func (r *Resolver) SetClock(now func() time.Time) { r.now = now }

// Resolve locates the on-screen geometry of rng within el. The contract is
// total: it always returns a result, marked unavailable when no strategy
// produced trustworthy bounds. One call never retries a strategy; the
// caller re-invokes on the next relevant event instead.
func (r *Resolver) Resolve(rng TextRange, el platform.TextElement, text string, appID string) GeometryResult {
	if el == nil {
		return Unavailable(ReasonNoElement)
	}
	if !rng.Valid(len([]rune(text))) {
		return Unavailable(ReasonInvalidRange)
	}

	b := r.profiles.ProfileFor(appID, el, text)

	if b.RequireTypingPause && r.gate.IsTyping(appID, b.TypingDebounce) {
		return Unavailable(ReasonTyping)
	}
	// Checked before any strategy runs so no measurement call (and no caret
	// relocation) happens against an element still settling after a focus
	// change.
	if !r.validator.Stabilized(r.gate.LastFocusChange(appID), b.StabilizationDelay, r.now()) {
		return Unavailable(ReasonStabilizing)
	}

	visible := el.VisibleFrame()
	for _, s := range orderStrategies(r.strategies, b.StrategyOrder) {
		if !s.CanHandle(el, appID) {
			continue
		}
		m, err := s.Measure(rng, el, text, b)
		if err != nil || m == nil {
			continue
		}
		if m.Confidence < MinConfidence {
			continue
		}
		lines := m.Lines
		if s.Name() != StrategyFrameworkCorrection {
			// The correction strategy applies profile adjustments itself.
			lines = applyAdjustments(lines, b)
		}
		if err := r.validator.ValidateAll(lines, visible); err != nil {
			continue
		}
		return r.finish(lines, m.Confidence, s.Name(), el)
	}
	return Unavailable(ReasonExhausted)
}

// applyAdjustments applies the profile's coordinate corrections to measured
// line rectangles.
func applyAdjustments(lines []geometry.Rect, b profile.Behavior) []geometry.Rect {
	shiftY := b.Has(profile.QuirkFixedYOffset) && b.YOffset != 0
	scaleH := b.Has(profile.QuirkLineHeightPercent) && b.LineHeightScale > 0
	if !shiftY && !scaleH {
		return lines
	}
	out := make([]geometry.Rect, len(lines))
	for i, line := range lines {
		if shiftY {
			line = line.OffsetBy(0, b.YOffset)
		}
		if scaleH {
			line.Height *= b.LineHeightScale
		}
		out[i] = line
	}
	return out
}

// finish converts validated query-space lines into the final result.
func (r *Resolver) finish(lines []geometry.Rect, confidence float64, strategy string, el platform.TextElement) GeometryResult {
	if r.displays != nil {
		h := r.displays.HeightForRect(el.Frame())
		converted := make([]geometry.Rect, len(lines))
		for i, line := range lines {
			converted[i] = geometry.ToRenderCoordinates(line, h)
		}
		lines = converted
	}
	primary, all, hit := r.merger.Merge(lines)
	return GeometryResult{
		BoundsPrimary: primary,
		AllLineBounds: all,
		HitTest:       hit,
		Confidence:    confidence,
		Strategy:      strategy,
	}
}
