package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/output"
	"github.com/textwarden/anchor/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect and manage behavior profiles",
	Long: `Inspect the behavior profiles the resolver runs under: the builtin table,
the override file, and the cache of probed capability profiles.

Examples:
  anchor profiles list
  anchor profiles show com.apple.TextEdit
  anchor profiles clear com.example.editor
  anchor profiles clear`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin and cached profiles",
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <app-id>",
	Short: "Show the effective behavior profile for an app",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesClearCmd = &cobra.Command{
	Use:   "clear [<app-id>]",
	Short: "Remove cached profiles (one app, or all)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfilesClear,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesClearCmd)
	profilesListCmd.Flags().Bool("pretty", false, "Pretty-print JSON")
	profilesShowCmd.Flags().Bool("pretty", false, "Pretty-print JSON")
}

// profileListing is the output of "profiles list".
type profileListing struct {
	Builtin   []string                    `yaml:"builtin" json:"builtin"`
	Overrides []string                    `yaml:"overrides,omitempty" json:"overrides,omitempty"`
	Cached    []profile.CapabilityProfile `yaml:"cached,omitempty" json:"cached,omitempty"`
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	store, overrides, err := openProfileChain()
	if err != nil {
		return err
	}

	cached, err := store.List()
	if err != nil {
		return fmt.Errorf("list cached profiles: %w", err)
	}

	listing := profileListing{Builtin: profile.BuiltinIDs(), Cached: cached}
	for id := range overrides {
		listing.Overrides = append(listing.Overrides, id)
	}
	return output.Print(listing)
}

// profileView is the output of "profiles show": the effective behavior plus
// which layer of the lookup chain produced it.
type profileView struct {
	AppID              string          `yaml:"appId" json:"appId"`
	Source             string          `yaml:"source" json:"source"`
	Quirks             []profile.Quirk `yaml:"quirks,omitempty" json:"quirks,omitempty"`
	StrategyOrder      []string        `yaml:"strategyOrder,omitempty" json:"strategyOrder,omitempty"`
	TypingDebounceMs   int64           `yaml:"typingDebounceMs,omitempty" json:"typingDebounceMs,omitempty"`
	StabilizationMs    int64           `yaml:"stabilizationMs,omitempty" json:"stabilizationMs,omitempty"`
	LineHeightScale    float64         `yaml:"lineHeightScale,omitempty" json:"lineHeightScale,omitempty"`
	YOffset            float64         `yaml:"yOffset,omitempty" json:"yOffset,omitempty"`
	RequireTypingPause bool            `yaml:"requireTypingPause" json:"requireTypingPause"`
	UnderlinesEnabled  bool            `yaml:"underlinesEnabled" json:"underlinesEnabled"`
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	appID := args[0]

	store, overrides, err := openProfileChain()
	if err != nil {
		return err
	}

	// Same precedence as resolution, minus live probing: override file,
	// builtin table, probe cache, conservative default.
	var b profile.Behavior
	source := "default"
	switch {
	case overrides[appID].AppID != "":
		b, source = overrides[appID], "override"
	default:
		if builtin, ok := profile.Builtin(appID); ok {
			b, source = builtin, "builtin"
			break
		}
		if cached, err := store.Load(appID); err == nil && cached != nil {
			b, source = cached.Behavior(), "cached"
			break
		}
		b = profile.ConservativeDefault(appID)
	}

	return output.Print(profileView{
		AppID:              b.AppID,
		Source:             source,
		Quirks:             b.Quirks,
		StrategyOrder:      b.StrategyOrder,
		TypingDebounceMs:   b.TypingDebounce.Milliseconds(),
		StabilizationMs:    b.StabilizationDelay.Milliseconds(),
		LineHeightScale:    b.LineHeightScale,
		YOffset:            b.YOffset,
		RequireTypingPause: b.RequireTypingPause,
		UnderlinesEnabled:  b.UnderlinesEnabled,
	})
}

func runProfilesClear(cmd *cobra.Command, args []string) error {
	store, _, err := openProfileChain()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if err := store.Delete(args[0]); err != nil {
			return fmt.Errorf("clear %s: %w", args[0], err)
		}
		return output.Print(map[string]string{"cleared": args[0]})
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return output.Print(map[string]string{"cleared": "all", "at": time.Now().Format(time.RFC3339)})
}
