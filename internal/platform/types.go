package platform

import (
	"fmt"
	"strings"
)

// TargetOptions identifies which application's focused text element to query.
type TargetOptions struct {
	App string // Stable application identifier (e.g. "com.apple.TextEdit")
	PID int    // Process ID (0 = unset)
}

// Validate checks that at least one selector is present.
func (o TargetOptions) Validate() error {
	if strings.TrimSpace(o.App) == "" && o.PID == 0 {
		return fmt.Errorf("target requires an app identifier or a pid")
	}
	return nil
}
