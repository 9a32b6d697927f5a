package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/output"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Resolve text spans to on-screen geometry",
	Long:  "A CLI for resolving character ranges inside third-party application text fields to screen coordinates via accessibility APIs.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for probed capability profiles (default: user cache dir)")
	rootCmd.PersistentFlags().String("profiles-file", "", "YAML file with behavior profile overrides (default: user config dir)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if platform.RequestPermissionsFunc != nil {
			platform.RequestPermissionsFunc()
		}

		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags (e.g. annotate --format).
		format, _ := rootCmd.PersistentFlags().GetString("format")

		// Smart default: auto-detect format when not explicitly set.
		// Piped output (agent context) → json. Terminal output → yaml.
		if format == "" {
			if output.IsOutputPiped() {
				format = "json"
			} else {
				format = "yaml"
			}
		}

		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
			if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
				output.PrettyOutput = true
			}
		}
		return nil
	}
}

// cacheDir returns the capability-profile cache directory, honoring
// --cache-dir and falling back to <user cache>/anchor/profiles.
func cacheDir() (string, error) {
	if dir, _ := rootCmd.PersistentFlags().GetString("cache-dir"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "anchor", "profiles"), nil
}

// overridesPath returns the behavior-override file path, honoring
// --profiles-file and falling back to <user config>/anchor/profiles.yaml.
// The file is optional; loading a missing file yields no overrides.
func overridesPath() string {
	if path, _ := rootCmd.PersistentFlags().GetString("profiles-file"); path != "" {
		return path
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "anchor", "profiles.yaml")
}
