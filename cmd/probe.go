package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/output"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe an application's measurement capabilities",
	Long: `Run the strategy profiler against the focused text element of a target
application, print the derived capability profile, and persist it to the
cache so subsequent resolutions use it.

Probing re-derives the profile from scratch and replaces any cached entry
wholesale, so it also refreshes stale entries before their TTL expires.

Examples:
  anchor probe --app com.example.editor
  anchor probe --pid 4242 --no-save`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	addTargetFlags(probeCmd)
	probeCmd.Flags().Bool("no-save", false, "Print the derived profile without persisting it")
	probeCmd.Flags().Bool("pretty", false, "Pretty-print JSON")
}

func runProbe(cmd *cobra.Command, args []string) error {
	noSave, _ := cmd.Flags().GetBool("no-save")

	eng, err := newEngine()
	if err != nil {
		return err
	}

	el, text, appID, err := eng.focusedTarget(cmd)
	if err != nil {
		return err
	}

	prof, err := eng.profiler.Probe(el, text, appID)
	if err != nil {
		return fmt.Errorf("probe %s: %w", appID, err)
	}

	if !noSave {
		if err := eng.store.Save(prof); err != nil {
			return fmt.Errorf("persist profile: %w", err)
		}
	}
	return output.Print(prof)
}
