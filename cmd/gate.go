package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/output"
	"github.com/textwarden/anchor/internal/resolve"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Report the typing-gate state for an application",
	Long: `Watch an application's keystroke and focus activity for a short window
and report whether the typing gate would currently suppress resolution.

The quiet period defaults to the app's profiled typing debounce.

Examples:
  anchor gate --app com.apple.TextEdit
  anchor gate --app com.tinyspeck.slackmacgap --watch 5`,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)
	addTargetFlags(gateCmd)
	gateCmd.Flags().Int("watch", 2, "Seconds of activity to observe before reporting")
	gateCmd.Flags().Int("quiet", 0, "Quiet period in milliseconds (0 = the app profile's debounce)")
	gateCmd.Flags().Bool("pretty", false, "Pretty-print JSON")
}

// gateReport is the output of the gate command.
type gateReport struct {
	AppID           string `yaml:"appId" json:"appId"`
	Typing          bool   `yaml:"typing" json:"typing"`
	QuietMs         int64  `yaml:"quietMs" json:"quietMs"`
	LastFocusChange string `yaml:"lastFocusChange,omitempty" json:"lastFocusChange,omitempty"`
}

func runGate(cmd *cobra.Command, args []string) error {
	watchSec, _ := cmd.Flags().GetInt("watch")
	quietMs, _ := cmd.Flags().GetInt("quiet")

	eng, err := newEngine()
	if err != nil {
		return err
	}
	if eng.provider.Activity == nil {
		return fmt.Errorf("activity monitoring not available on this platform")
	}

	opts, err := targetOptions(cmd)
	if err != nil {
		return err
	}
	appID := opts.App
	if appID == "" {
		// Resolve the stable identifier from the live target.
		_, _, id, err := eng.provider.Bridge.FocusedTextElement(opts)
		if err != nil {
			return fmt.Errorf("locate target: %w", err)
		}
		appID = id
	}

	quiet := time.Duration(quietMs) * time.Millisecond
	if quiet == 0 {
		b := eng.source.ProfileFor(appID, nil, "")
		quiet = b.TypingDebounce
	}
	if quiet == 0 {
		quiet = resolve.DefaultTypingDebounce
	}

	gate := resolve.NewTypingGate()
	cancel, err := eng.provider.Activity.Subscribe(appID, gate.Observe)
	if err != nil {
		return fmt.Errorf("subscribe to activity: %w", err)
	}
	defer cancel()

	time.Sleep(time.Duration(watchSec) * time.Second)

	report := gateReport{
		AppID:   appID,
		Typing:  gate.IsTyping(appID, quiet),
		QuietMs: quiet.Milliseconds(),
	}
	if t := gate.LastFocusChange(appID); !t.IsZero() {
		report.LastFocusChange = t.Format(time.RFC3339Nano)
	}
	return output.Print(report)
}
