package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/output"
	"github.com/textwarden/anchor/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a character range to screen geometry",
	Long: `Locate the on-screen bounds of a character range inside the focused text
element of a target application.

The resolver tries measurement strategies in the order the app's behavior
profile prescribes and reports the first trustworthy result. The result is
always printed; when no strategy succeeds it carries unavailable: true and
a reason instead of geometry.

Examples:
  anchor resolve --app com.apple.TextEdit --start 10 --end 24
  anchor resolve --pid 4242 --start 0 --end 5 --format json`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	addTargetFlags(resolveCmd)
	resolveCmd.Flags().Uint("start", 0, "Range start, in characters from the beginning of the text")
	resolveCmd.Flags().Uint("end", 0, "Range end (exclusive)")
	resolveCmd.Flags().Bool("pretty", false, "Pretty-print JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetUint("start")
	end, _ := cmd.Flags().GetUint("end")
	if end < start {
		return fmt.Errorf("--end must be >= --start")
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	el, text, appID, err := eng.focusedTarget(cmd)
	if err != nil {
		return err
	}

	cancel := eng.watchActivity(appID)
	defer cancel()

	res := eng.resolver.Resolve(resolve.TextRange{Start: start, End: end}, el, text, appID)
	return output.Print(res)
}
