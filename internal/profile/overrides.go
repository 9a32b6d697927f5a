package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML schema of a user-provided profile file. Entries
// amend or replace builtin profiles without rebuilding.
type overrideFile struct {
	Profiles []overrideEntry `yaml:"profiles"`
}

type overrideEntry struct {
	App             string   `yaml:"app"`
	Strategies      []string `yaml:"strategies"`
	Quirks          []string `yaml:"quirks,omitempty"`
	TypingPause     *bool    `yaml:"typing_pause,omitempty"`
	Underlines      *bool    `yaml:"underlines,omitempty"`
	DebounceMs      int      `yaml:"debounce_ms,omitempty"`
	StabilizationMs int      `yaml:"stabilization_ms,omitempty"`
	LineHeightScale float64  `yaml:"line_height_scale,omitempty"`
	YOffset         float64  `yaml:"y_offset,omitempty"`
}

// knownQuirks guards the closed quirk set against typos in override files.
var knownQuirks = map[Quirk]bool{
	QuirkFirstCharBounds:      true,
	QuirkStaleAfterFocus:      true,
	QuirkZeroWidthRange:       true,
	QuirkLineHeightPercent:    true,
	QuirkFixedYOffset:         true,
	QuirkUnreliableRangeQuery: true,
	QuirkBlockEditor:          true,
	QuirkTerminalGrid:         true,
}

// LoadOverrides parses a YAML profile override file into behaviors keyed by
// application identifier. A missing file is not an error.
func LoadOverrides(path string) (map[string]Behavior, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}

	out := make(map[string]Behavior, len(file.Profiles))
	for _, e := range file.Profiles {
		if e.App == "" {
			return nil, fmt.Errorf("parse overrides %s: entry missing app identifier", path)
		}
		b := Behavior{
			AppID:              e.App,
			StrategyOrder:      e.Strategies,
			TypingDebounce:     time.Duration(e.DebounceMs) * time.Millisecond,
			StabilizationDelay: time.Duration(e.StabilizationMs) * time.Millisecond,
			LineHeightScale:    e.LineHeightScale,
			YOffset:            e.YOffset,
			RequireTypingPause: true,
			UnderlinesEnabled:  true,
		}
		if e.TypingPause != nil {
			b.RequireTypingPause = *e.TypingPause
		}
		if e.Underlines != nil {
			b.UnderlinesEnabled = *e.Underlines
		}
		for _, q := range e.Quirks {
			quirk := Quirk(q)
			if !knownQuirks[quirk] {
				return nil, fmt.Errorf("parse overrides %s: unknown quirk %q for %s", path, q, e.App)
			}
			b.Quirks = append(b.Quirks, quirk)
		}
		out[e.App] = b
	}
	return out, nil
}
