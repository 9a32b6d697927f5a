package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
	"github.com/textwarden/anchor/internal/resolve"
)

// engine bundles the resolution pipeline a command needs: the platform
// provider, the profile lookup chain, and the resolver built on top.
type engine struct {
	provider *platform.Provider
	store    *profile.Store
	source   *resolve.ProfileSource
	profiler *resolve.Profiler
	resolver *resolve.Resolver
}

// newEngine wires the full pipeline from the root flags. Fails with
// platform.ErrUnsupported when no accessibility backend is registered.
func newEngine() (*engine, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}

	store, overrides, err := openProfileChain()
	if err != nil {
		return nil, err
	}

	profiler := resolve.NewProfiler(resolve.DefaultStrategies(), &resolve.BoundsValidator{})
	source := resolve.NewProfileSource(store, profiler, overrides)
	resolver := resolve.New(resolve.Config{
		Profiles: source,
		Displays: provider.Displays,
	})

	return &engine{
		provider: provider,
		store:    store,
		source:   source,
		profiler: profiler,
		resolver: resolver,
	}, nil
}

// openProfileChain opens the capability cache and loads the override file.
// These have no platform dependency, so profile inspection works even where
// no accessibility backend exists.
func openProfileChain() (*profile.Store, map[string]profile.Behavior, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := profile.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open profile cache: %w", err)
	}

	var overrides map[string]profile.Behavior
	if path := overridesPath(); path != "" {
		overrides, err = profile.LoadOverrides(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load profile overrides: %w", err)
		}
	}
	return store, overrides, nil
}

// focusedTarget locates the focused text element of the app the command's
// flags select, returning the element, its text snapshot, and the stable
// app identifier.
func (e *engine) focusedTarget(cmd *cobra.Command) (platform.TextElement, string, string, error) {
	opts, err := targetOptions(cmd)
	if err != nil {
		return nil, "", "", err
	}
	el, text, appID, err := e.provider.Bridge.FocusedTextElement(opts)
	if err != nil {
		return nil, "", "", fmt.Errorf("locate focused text element: %w", err)
	}
	return el, text, appID, nil
}

// watchActivity feeds the target app's keystroke and focus events into the
// resolver's typing gate for the duration of the command. Best-effort: apps
// without an activity feed resolve without gate input.
func (e *engine) watchActivity(appID string) func() {
	if e.provider.Activity == nil {
		return func() {}
	}
	cancel, err := e.provider.Activity.Subscribe(appID, e.resolver.Gate().Observe)
	if err != nil {
		return func() {}
	}
	return cancel
}

// addTargetFlags adds the --app/--pid selectors shared by commands that
// operate on a live application.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("app", "", "Target application identifier (e.g. \"com.apple.TextEdit\")")
	cmd.Flags().Int("pid", 0, "Target process by PID")
}

// targetOptions reads the target flags and validates that a selector is set.
func targetOptions(cmd *cobra.Command) (platform.TargetOptions, error) {
	app, _ := cmd.Flags().GetString("app")
	pid, _ := cmd.Flags().GetInt("pid")
	opts := platform.TargetOptions{App: app, PID: pid}
	if err := opts.Validate(); err != nil {
		return platform.TargetOptions{}, err
	}
	return opts, nil
}
