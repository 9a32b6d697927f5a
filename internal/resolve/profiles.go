package resolve

import (
	"sync"

	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
)

// ProfileSource resolves behavior profiles through the full lookup chain:
// user overrides, the builtin table, the persisted probe cache, a fresh
// probe, and finally the conservative default. Reads are concurrent-safe;
// probing is single-writer and replaces cache entries wholesale.
type ProfileSource struct {
	overrides map[string]profile.Behavior
	store     *profile.Store
	profiler  *Profiler

	mu     sync.Mutex
	probes map[string]int
}

// NewProfileSource wires a profile source. Store and profiler may be nil,
// disabling caching and probing respectively.
func NewProfileSource(store *profile.Store, profiler *Profiler, overrides map[string]profile.Behavior) *ProfileSource {
	return &ProfileSource{
		overrides: overrides,
		store:     store,
		profiler:  profiler,
		probes:    make(map[string]int),
	}
}

// ProfileFor implements ProfileProvider.
func (ps *ProfileSource) ProfileFor(appID string, el platform.TextElement, text string) profile.Behavior {
	if b, ok := ps.overrides[appID]; ok {
		return b
	}
	if b, ok := profile.Builtin(appID); ok {
		return b
	}
	if ps.store != nil {
		if cached, err := ps.store.Load(appID); err == nil && cached != nil {
			return cached.Behavior()
		}
	}
	if ps.profiler != nil && el != nil {
		if b, ok := ps.probe(appID, el, text); ok {
			return b
		}
	}
	return profile.ConservativeDefault(appID)
}

// probe runs the profiler once and persists the result. The mutex keeps
// probing single-writer; concurrent readers of the store never see a
// partial entry because writes go through rename.
func (ps *ProfileSource) probe(appID string, el platform.TextElement, text string) (profile.Behavior, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	// Another call may have probed while this one waited.
	if ps.store != nil {
		if cached, err := ps.store.Load(appID); err == nil && cached != nil {
			return cached.Behavior(), true
		}
	}

	ps.probes[appID]++
	derived, err := ps.profiler.Probe(el, text, appID)
	if err != nil {
		// Probe failure never fails the caller; the conservative default
		// applies until the next lookup retries.
		return profile.Behavior{}, false
	}
	if ps.store != nil {
		ps.store.Save(derived)
	}
	return derived.Behavior(), true
}

// ProbeCount reports how many times the profiler ran for an identifier.
func (ps *ProfileSource) ProbeCount(appID string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.probes[appID]
}
