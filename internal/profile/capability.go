package profile

import "time"

// Text replacement methods a probed application supports, best first.
const (
	ReplaceByRange     = "range"
	ReplaceByCaret     = "caret"
	ReplaceByClipboard = "clipboard"
)

// CapabilityProfile is the persisted result of probing an application the
// builtin table does not cover. Entries expire after TTL and are then
// re-derived from scratch, never patched.
type CapabilityProfile struct {
	AppID                    string    `json:"appId" yaml:"appId"`
	ProbedAt                 time.Time `json:"probedAt" yaml:"probedAt"`
	RecommendedStrategyOrder []string  `json:"recommendedStrategyOrder" yaml:"recommendedStrategyOrder"`
	VisualUnderlinesEnabled  bool      `json:"visualUnderlinesEnabled" yaml:"visualUnderlinesEnabled"`
	TextReplacementMethod    string    `json:"textReplacementMethod" yaml:"textReplacementMethod"`
}

// TTL is how long a probed capability profile stays valid.
const TTL = 7 * 24 * time.Hour

// Expired reports whether the profile is older than TTL at the given time.
func (p CapabilityProfile) Expired(now time.Time) bool {
	return now.Sub(p.ProbedAt) > TTL
}

// Behavior converts a probed capability profile into a runtime behavior.
// Probed apps always get the typing pause; the probe cannot establish that
// skipping it is safe.
func (p CapabilityProfile) Behavior() Behavior {
	return Behavior{
		AppID:              p.AppID,
		StrategyOrder:      p.RecommendedStrategyOrder,
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  p.VisualUnderlinesEnabled,
	}
}
