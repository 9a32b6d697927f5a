package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir_FlagOverride(t *testing.T) {
	dir := t.TempDir()
	rootCmd.PersistentFlags().Set("cache-dir", dir)
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("cache-dir", "") })

	got, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if got != dir {
		t.Errorf("expected %q, got %q", dir, got)
	}
}

func TestCacheDir_DefaultUnderUserCache(t *testing.T) {
	rootCmd.PersistentFlags().Set("cache-dir", "")

	got, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join("anchor", "profiles")) {
		t.Errorf("expected anchor/profiles suffix, got %q", got)
	}
}

func TestOverridesPath_FlagOverride(t *testing.T) {
	rootCmd.PersistentFlags().Set("profiles-file", "/tmp/custom.yaml")
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("profiles-file", "") })

	if got := overridesPath(); got != "/tmp/custom.yaml" {
		t.Errorf("expected /tmp/custom.yaml, got %q", got)
	}
}

func TestOpenProfileChain_RejectsMalformedOverrides(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(bad, []byte("profiles: {not: a list}"), 0o644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}
	rootCmd.PersistentFlags().Set("cache-dir", dir)
	rootCmd.PersistentFlags().Set("profiles-file", bad)
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Set("cache-dir", "")
		rootCmd.PersistentFlags().Set("profiles-file", "")
	})

	if _, _, err := openProfileChain(); err == nil {
		t.Error("expected error for malformed override file")
	}
}
