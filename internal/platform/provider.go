package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the platform backends for the current OS.
type Provider struct {
	Bridge   Bridge
	Activity ActivityMonitor
	Displays DisplayOracle
}

// ErrUnsupported is returned on platforms with no registered backend.
var ErrUnsupported = fmt.Errorf("no accessibility backend registered for %s/%s", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
var NewProviderFunc func() (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (e.g. accessibility access) at startup.
var RequestPermissionsFunc func()

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
