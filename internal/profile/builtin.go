package profile

import "time"

// builtin maps stable application identifiers to hand-tuned profiles.
// Entries reflect observed behavior of each application's accessibility
// implementation; unlisted apps go through the capability profiler.
var builtin = map[string]Behavior{
	"com.apple.TextEdit": {
		AppID:              "com.apple.TextEdit",
		StrategyOrder:      []string{"range-bounds", "line-index", "insertion-point"},
		TypingDebounce:     800 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.apple.Notes": {
		AppID:              "com.apple.Notes",
		Quirks:             []Quirk{QuirkFirstCharBounds},
		StrategyOrder:      []string{"framework-correction", "range-bounds", "neighbor-char"},
		TypingDebounce:     800 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.apple.mail": {
		AppID:              "com.apple.mail",
		Quirks:             []Quirk{QuirkStaleAfterFocus},
		StrategyOrder:      []string{"range-bounds", "text-marker", "insertion-point"},
		TypingDebounce:     time.Second,
		StabilizationDelay: 150 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.apple.Safari": {
		AppID:              "com.apple.Safari",
		StrategyOrder:      []string{"text-marker", "range-bounds", "neighbor-char"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.google.Chrome": {
		AppID:              "com.google.Chrome",
		Quirks:             []Quirk{QuirkZeroWidthRange},
		StrategyOrder:      []string{"text-marker", "neighbor-char", "insertion-point"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"org.mozilla.firefox": {
		AppID:              "org.mozilla.firefox",
		Quirks:             []Quirk{QuirkUnreliableRangeQuery},
		StrategyOrder:      []string{"neighbor-char", "insertion-point", "font-metrics"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	// Electron apps share a renderer with Chrome but report a fixed vertical
	// offset for text bounds in some versions.
	"com.microsoft.VSCode": {
		AppID:              "com.microsoft.VSCode",
		Quirks:             []Quirk{QuirkFixedYOffset},
		StrategyOrder:      []string{"framework-correction", "text-marker", "line-index"},
		TypingDebounce:     600 * time.Millisecond,
		YOffset:            -2,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.tinyspeck.slackmacgap": {
		AppID:              "com.tinyspeck.slackmacgap",
		Quirks:             []Quirk{QuirkZeroWidthRange},
		StrategyOrder:      []string{"text-marker", "neighbor-char", "font-metrics"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.hnc.Discord": {
		AppID:              "com.hnc.Discord",
		Quirks:             []Quirk{QuirkUnreliableRangeQuery},
		StrategyOrder:      []string{"neighbor-char", "origin-relative", "font-metrics"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  false,
	},
	"notion.id": {
		AppID:              "notion.id",
		Quirks:             []Quirk{QuirkBlockEditor},
		StrategyOrder:      []string{"element-tree", "neighbor-char", "font-metrics"},
		TypingDebounce:     time.Second,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"md.obsidian": {
		AppID:              "md.obsidian",
		Quirks:             []Quirk{QuirkBlockEditor, QuirkLineHeightPercent},
		StrategyOrder:      []string{"element-tree", "line-index", "font-metrics"},
		TypingDebounce:     800 * time.Millisecond,
		LineHeightScale:    0.92,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.apple.Terminal": {
		AppID:              "com.apple.Terminal",
		Quirks:             []Quirk{QuirkTerminalGrid},
		StrategyOrder:      []string{"line-index", "origin-relative", "font-metrics"},
		TypingDebounce:     500 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.googlecode.iterm2": {
		AppID:              "com.googlecode.iterm2",
		Quirks:             []Quirk{QuirkTerminalGrid},
		StrategyOrder:      []string{"line-index", "origin-relative", "font-metrics"},
		TypingDebounce:     500 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.apple.dt.Xcode": {
		AppID:              "com.apple.dt.Xcode",
		StrategyOrder:      []string{"range-bounds", "line-index", "insertion-point"},
		TypingDebounce:     600 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
	"com.apple.iWork.Pages": {
		AppID:              "com.apple.iWork.Pages",
		Quirks:             []Quirk{QuirkStaleAfterFocus},
		StrategyOrder:      []string{"range-bounds", "text-marker", "font-metrics"},
		TypingDebounce:     time.Second,
		StabilizationDelay: 200 * time.Millisecond,
		RequireTypingPause: true,
		UnderlinesEnabled:  true,
	},
}

// Builtin returns the builtin profile for an application identifier.
func Builtin(appID string) (Behavior, bool) {
	b, ok := builtin[appID]
	return b, ok
}

// BuiltinIDs returns the identifiers with builtin profiles, for listing.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(builtin))
	for id := range builtin {
		ids = append(ids, id)
	}
	return ids
}
