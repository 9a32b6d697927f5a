package resolve

import (
	"sync"
	"time"

	"github.com/textwarden/anchor/internal/platform"
)

// DefaultTypingDebounce is the quiet period used when a profile does not
// configure its own.
const DefaultTypingDebounce = time.Second

// TypingGate tracks per-application user activity and suppresses resolution
// while text is actively being edited. The debounce is pure arithmetic on
// the last observed keystroke at read time, so gate decisions and resolution
// attempts stay ordered on whichever goroutine drives them; there is no
// background timer to race.
//
// It also records focus-change times for the validator's stabilization
// check, since both observations arrive from the same activity feed.
type TypingGate struct {
	mu        sync.Mutex
	now       func() time.Time
	lastKey   map[string]time.Time
	lastFocus map[string]time.Time
}

// NewTypingGate creates a gate using the wall clock.
func NewTypingGate() *TypingGate {
	return &TypingGate{
		now:       time.Now,
		lastKey:   make(map[string]time.Time),
		lastFocus: make(map[string]time.Time),
	}
}

// SetClock replaces the gate's time source. Tests only.
func (g *TypingGate) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Observe feeds one activity event into the gate.
func (g *TypingGate) Observe(ev platform.ActivityEvent) {
	switch ev.Kind {
	case platform.ActivityKeystroke:
		g.RecordKeystroke(ev.AppID)
	case platform.ActivityFocusChange:
		g.RecordFocusChange(ev.AppID)
	}
}

// RecordKeystroke notes a keystroke in the given application.
func (g *TypingGate) RecordKeystroke(appID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastKey[appID] = g.now()
}

// RecordFocusChange notes that keyboard focus moved within the application.
func (g *TypingGate) RecordFocusChange(appID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFocus[appID] = g.now()
}

// IsTyping reports whether the last keystroke in the application is more
// recent than the quiet period. A zero quiet period means the default.
func (g *TypingGate) IsTyping(appID string, quiet time.Duration) bool {
	if quiet <= 0 {
		quiet = DefaultTypingDebounce
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	last, ok := g.lastKey[appID]
	if !ok {
		return false
	}
	return g.now().Sub(last) < quiet
}

// LastFocusChange returns when focus last moved in the application, or a
// zero time if no change was observed.
func (g *TypingGate) LastFocusChange(appID string) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFocus[appID]
}
