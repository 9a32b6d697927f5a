package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/resolve"
)

func TestResolveCommand_Flags(t *testing.T) {
	flags := resolveCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"app", "string"},
		{"pid", "int"},
		{"start", "uint"},
		{"end", "uint"},
		{"pretty", "bool"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestResolveCommand_RequiresTarget(t *testing.T) {
	withFakeProvider(t, &platform.Provider{Bridge: &fakeBridge{}})

	_, err := executeCommand(t, "resolve", "--start", "0", "--end", "5",
		"--cache-dir", t.TempDir(), "--format", "json")
	if err == nil {
		t.Error("expected error without --app or --pid")
	}
	resolveCmd.Flags().Set("app", "")
}

func TestResolveCommand_Unsupported(t *testing.T) {
	// No provider registered: commands must fail cleanly on platforms
	// without a backend.
	old := platform.NewProviderFunc
	platform.NewProviderFunc = nil
	t.Cleanup(func() { platform.NewProviderFunc = old })

	_, err := executeCommand(t, "resolve", "--app", "com.apple.TextEdit",
		"--start", "0", "--end", "5", "--cache-dir", t.TempDir(), "--format", "json")
	if err == nil {
		t.Fatal("expected error without a platform backend")
	}
	if !strings.Contains(err.Error(), "no accessibility backend") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveCommand_EndToEnd(t *testing.T) {
	monitor := &fakeMonitor{}
	withFakeProvider(t, &platform.Provider{
		Bridge: &fakeBridge{
			el:    &fakeTextElement{text: "hello world"},
			text:  "hello world",
			appID: "com.apple.TextEdit",
		},
		Activity: monitor,
	})

	out, err := executeCommand(t, "resolve", "--app", "com.apple.TextEdit",
		"--start", "0", "--end", "5",
		"--cache-dir", t.TempDir(), "--format", "json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var res resolve.GeometryResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("parse output %q: %v", out, err)
	}
	if res.Unavailable {
		t.Fatalf("expected available result, got reason %q", res.Reason)
	}
	if res.Strategy != resolve.StrategyRangeBounds {
		t.Errorf("expected range-bounds strategy, got %q", res.Strategy)
	}
	if res.BoundsPrimary.X != 100 || res.BoundsPrimary.Width != 40 {
		t.Errorf("unexpected primary bounds %+v", res.BoundsPrimary)
	}
	if len(monitor.subscribed) == 0 || monitor.subscribed[0] != "com.apple.TextEdit" {
		t.Errorf("expected activity subscription for the target app, got %v", monitor.subscribed)
	}
}

func TestResolveCommand_RejectsReversedRange(t *testing.T) {
	withFakeProvider(t, &platform.Provider{Bridge: &fakeBridge{}})

	_, err := executeCommand(t, "resolve", "--app", "x", "--start", "5", "--end", "2",
		"--cache-dir", t.TempDir(), "--format", "json")
	if err == nil {
		t.Error("expected error for end < start")
	}
}
