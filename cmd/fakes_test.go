package cmd

import (
	"testing"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/platform"
)

// fakeTextElement is a minimal element with a working direct range query.
type fakeTextElement struct {
	text string
}

func (f *fakeTextElement) Role() string { return "textarea" }
func (f *fakeTextElement) Frame() geometry.Rect {
	return geometry.Rect{X: 0, Y: 0, Width: 800, Height: 600}
}
func (f *fakeTextElement) VisibleFrame() geometry.Rect { return f.Frame() }

func (f *fakeTextElement) BoundsForRange(start, end int) (geometry.Rect, error) {
	return geometry.Rect{
		X:      100 + 8*float64(start),
		Y:      100,
		Width:  8 * float64(end-start),
		Height: 16,
	}, nil
}

// fakeBridge serves one element under one app identifier.
type fakeBridge struct {
	el    platform.TextElement
	text  string
	appID string
}

func (b *fakeBridge) FocusedTextElement(opts platform.TargetOptions) (platform.TextElement, string, string, error) {
	return b.el, b.text, b.appID, nil
}

// fakeMonitor records subscriptions and delivers nothing.
type fakeMonitor struct {
	subscribed []string
}

func (m *fakeMonitor) Subscribe(appID string, fn func(platform.ActivityEvent)) (func(), error) {
	m.subscribed = append(m.subscribed, appID)
	return func() {}, nil
}

// withFakeProvider installs a provider for the duration of the test.
func withFakeProvider(t *testing.T, p *platform.Provider) {
	t.Helper()
	old := platform.NewProviderFunc
	platform.NewProviderFunc = func() (*platform.Provider, error) { return p, nil }
	t.Cleanup(func() { platform.NewProviderFunc = old })
}
