package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// executeCommand runs the root command with args and returns captured stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	return <-done, execErr
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"resolve", "probe", "profiles", "gate", "annotate", "serve"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	_, err := executeCommand(t, "profiles", "list", "--format", "xml", "--cache-dir", t.TempDir())
	if err == nil {
		t.Error("expected error for unsupported format")
	}
	// Reset for later tests; cobra keeps persistent flag values across runs.
	rootCmd.PersistentFlags().Set("format", "yaml")
}
