package resolve

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/textwarden/anchor/internal/geometry"
)

var visibleRegion = geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}

func TestValidate_AcceptsPlausible(t *testing.T) {
	v := &BoundsValidator{}
	if err := v.Validate(geometry.Rect{X: 100, Y: 100, Width: 80, Height: 16}, visibleRegion); err != nil {
		t.Errorf("unexpected rejection: %v", err)
	}
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	v := &BoundsValidator{}
	cases := []geometry.Rect{
		{X: math.NaN(), Y: 0, Width: 10, Height: 10},
		{X: 0, Y: math.Inf(1), Width: 10, Height: 10},
		{X: 0, Y: 0, Width: math.NaN(), Height: 10},
	}
	for _, r := range cases {
		err := v.Validate(r, visibleRegion)
		if !errors.Is(err, errInvalidBounds) {
			t.Errorf("rect %+v: expected invalid bounds, got %v", r, err)
		}
	}
}

func TestValidate_RejectsNonPositiveSize(t *testing.T) {
	v := &BoundsValidator{}
	for _, r := range []geometry.Rect{
		{X: 10, Y: 10, Width: 0, Height: 16},
		{X: 10, Y: 10, Width: 50, Height: 0},
		{X: 10, Y: 10, Width: -5, Height: 16},
	} {
		if !errors.Is(v.Validate(r, visibleRegion), errInvalidBounds) {
			t.Errorf("rect %+v: expected rejection", r)
		}
	}
}

func TestValidate_RejectsAbsurdLineHeight(t *testing.T) {
	v := &BoundsValidator{}
	err := v.Validate(geometry.Rect{X: 10, Y: 10, Width: 50, Height: 400}, visibleRegion)
	if !errors.Is(err, errInvalidBounds) {
		t.Errorf("expected rejection of 400pt line, got %v", err)
	}

	custom := &BoundsValidator{MaxLineHeight: 500}
	if err := custom.Validate(geometry.Rect{X: 10, Y: 10, Width: 50, Height: 400}, visibleRegion); err != nil {
		t.Errorf("custom cap should accept 400pt line, got %v", err)
	}
}

func TestValidate_RejectsOffscreen(t *testing.T) {
	v := &BoundsValidator{}
	err := v.Validate(geometry.Rect{X: 5000, Y: 5000, Width: 50, Height: 16}, visibleRegion)
	if !errors.Is(err, errInvalidBounds) {
		t.Errorf("expected rejection of offscreen rect, got %v", err)
	}
}

func TestValidate_EmptyVisibleRegionSkipsContainment(t *testing.T) {
	v := &BoundsValidator{}
	if err := v.Validate(geometry.Rect{X: 5000, Y: 5000, Width: 50, Height: 16}, geometry.Rect{}); err != nil {
		t.Errorf("no visible region known: containment must not reject, got %v", err)
	}
}

func TestValidateAll(t *testing.T) {
	v := &BoundsValidator{}
	good := geometry.Rect{X: 100, Y: 100, Width: 80, Height: 16}
	bad := geometry.Rect{X: 100, Y: 100, Width: -1, Height: 16}

	if err := v.ValidateAll([]geometry.Rect{good, good}, visibleRegion); err != nil {
		t.Errorf("unexpected rejection: %v", err)
	}
	if err := v.ValidateAll([]geometry.Rect{good, bad}, visibleRegion); !errors.Is(err, errInvalidBounds) {
		t.Errorf("expected rejection, got %v", err)
	}
	if err := v.ValidateAll(nil, visibleRegion); !errors.Is(err, errInvalidBounds) {
		t.Errorf("expected rejection of empty list, got %v", err)
	}
}

func TestStabilized(t *testing.T) {
	v := &BoundsValidator{}
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	if v.Stabilized(base, 150*time.Millisecond, base.Add(100*time.Millisecond)) {
		t.Error("100ms after focus with 150ms delay must not be stabilized")
	}
	if !v.Stabilized(base, 150*time.Millisecond, base.Add(200*time.Millisecond)) {
		t.Error("200ms after focus with 150ms delay must be stabilized")
	}
	if !v.Stabilized(time.Time{}, 150*time.Millisecond, base) {
		t.Error("no recorded focus change means stabilized")
	}
	if !v.Stabilized(base, 0, base) {
		t.Error("zero delay means stabilized")
	}
}
