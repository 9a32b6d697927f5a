package resolve

import (
	"testing"
	"time"

	"github.com/textwarden/anchor/internal/profile"
)

func newTestStore(t *testing.T) *profile.Store {
	t.Helper()
	s, err := profile.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestProfileSource_OverrideWinsOverBuiltin(t *testing.T) {
	override := profile.Behavior{AppID: "com.apple.TextEdit", StrategyOrder: []string{StrategyFontMetrics}}
	ps := NewProfileSource(nil, nil, map[string]profile.Behavior{"com.apple.TextEdit": override})

	got := ps.ProfileFor("com.apple.TextEdit", nil, "")
	if len(got.StrategyOrder) != 1 || got.StrategyOrder[0] != StrategyFontMetrics {
		t.Errorf("order = %v, want override", got.StrategyOrder)
	}
}

func TestProfileSource_Builtin(t *testing.T) {
	ps := NewProfileSource(nil, nil, nil)
	got := ps.ProfileFor("com.apple.TextEdit", nil, "")
	if got.AppID != "com.apple.TextEdit" || len(got.StrategyOrder) == 0 {
		t.Errorf("expected builtin profile, got %+v", got)
	}
	if ps.ProbeCount("com.apple.TextEdit") != 0 {
		t.Error("builtin lookup must not probe")
	}
}

func TestProfileSource_ProbeOncePersistAndReuse(t *testing.T) {
	store := newTestStore(t)
	ps := NewProfileSource(store, NewProfiler(nil, nil), nil)
	el := probeElement("hello world")

	first := ps.ProfileFor("com.example.new", el, "hello world")
	if ps.ProbeCount("com.example.new") != 1 {
		t.Fatalf("probe count = %d, want 1", ps.ProbeCount("com.example.new"))
	}
	if len(first.StrategyOrder) == 0 || first.StrategyOrder[0] != StrategyRangeBounds {
		t.Errorf("derived order = %v", first.StrategyOrder)
	}

	// Persisted: a fresh source over the same store needs no probe.
	cached, err := store.Load("com.example.new")
	if err != nil || cached == nil {
		t.Fatalf("expected persisted profile, got %v, %v", cached, err)
	}

	// A second lookup within the TTL reuses the cache.
	second := ps.ProfileFor("com.example.new", el, "hello world")
	if ps.ProbeCount("com.example.new") != 1 {
		t.Errorf("probe count = %d after second lookup, want still 1", ps.ProbeCount("com.example.new"))
	}
	if len(second.StrategyOrder) == 0 || second.StrategyOrder[0] != first.StrategyOrder[0] {
		t.Errorf("cached order = %v, want %v", second.StrategyOrder, first.StrategyOrder)
	}
}

func TestProfileSource_ExpiredEntryReprobedAndReplaced(t *testing.T) {
	store := newTestStore(t)
	stale := profile.CapabilityProfile{
		AppID:                    "com.example.app",
		ProbedAt:                 time.Now().Add(-8 * 24 * time.Hour),
		RecommendedStrategyOrder: []string{StrategyOriginRelative},
		TextReplacementMethod:    profile.ReplaceByClipboard,
	}
	if err := store.Save(stale); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ps := NewProfileSource(store, NewProfiler(nil, nil), nil)
	got := ps.ProfileFor("com.example.app", probeElement("hello"), "hello")
	if ps.ProbeCount("com.example.app") != 1 {
		t.Fatalf("probe count = %d, want 1 (expired entry triggers re-probe)", ps.ProbeCount("com.example.app"))
	}
	if len(got.StrategyOrder) == 0 || got.StrategyOrder[0] != StrategyRangeBounds {
		t.Errorf("re-derived order = %v", got.StrategyOrder)
	}

	// The cache entry was replaced wholesale.
	fresh, _ := store.Load("com.example.app")
	if fresh == nil {
		t.Fatal("expected replacement entry")
	}
	if fresh.RecommendedStrategyOrder[0] == StrategyOriginRelative {
		t.Error("stale order survived; replacement must not merge")
	}
	if fresh.TextReplacementMethod != profile.ReplaceByRange {
		t.Errorf("method = %q", fresh.TextReplacementMethod)
	}
}

func TestProfileSource_ProbeFailureFallsBackToDefault(t *testing.T) {
	store := newTestStore(t)
	ps := NewProfileSource(store, NewProfiler(nil, nil), nil)

	// No text: the probe fails, the caller still gets a usable profile.
	got := ps.ProfileFor("com.example.blank", newFakeElement(), "")
	if got.UnderlinesEnabled {
		t.Error("fallback must be the conservative default")
	}
	if len(got.StrategyOrder) != 1 || got.StrategyOrder[0] != StrategyFontMetrics {
		t.Errorf("order = %v", got.StrategyOrder)
	}
	if cached, _ := store.Load("com.example.blank"); cached != nil {
		t.Error("failed probe must not persist anything")
	}
}

func TestProfileSource_NoProfilerNoStore(t *testing.T) {
	ps := NewProfileSource(nil, nil, nil)
	got := ps.ProfileFor("com.example.unknown", newFakeElement(), "text")
	if !got.RequireTypingPause || got.UnderlinesEnabled {
		t.Errorf("expected conservative default, got %+v", got)
	}
}
