package b64pdf

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how a decoded document reaches the user.
type Mode string

// Delivery modes.
const (
	ModeNewTab   Mode = "new-tab"   // open a tab pointed at the handle
	ModeProxyTab Mode = "proxy-tab" // open a blank tab first, fill it once ready
	ModeSameTab  Mode = "same-tab"  // navigate the application tab itself
)

// Default cleanup delays per mode.
const (
	DefaultNewTabCleanupDelay   = 10 * time.Second
	DefaultProxyTabCleanupDelay = 60 * time.Second
)

// MaxDelay bounds both configurable delays.
const MaxDelay = 10 * time.Minute

// Modes lists every supported mode, in help-text order.
func Modes() []Mode {
	return []Mode{ModeNewTab, ModeProxyTab, ModeSameTab}
}

// ParseMode converts a case-insensitive name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.valid() {
		return "", fmt.Errorf("%w: %q (must be new-tab, proxy-tab, or same-tab)", ErrInvalidMode, s)
	}
	return m, nil
}

func (m Mode) valid() bool {
	switch m {
	case ModeNewTab, ModeProxyTab, ModeSameTab:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}

// OpensSurface reports whether the mode creates a new browsing context.
func (m Mode) OpensSurface() bool {
	return m == ModeNewTab || m == ModeProxyTab
}

// DeliveryOptions configures a Strategy.
type DeliveryOptions struct {
	Mode Mode

	// CleanupDelay is the grace period before a handle is revoked on the
	// success path. Zero selects the mode default. For same-tab, zero means
	// the handle lives until the tab navigates away.
	CleanupDelay time.Duration

	// PrepareDelay simulates backend latency between the loading page and
	// the decode step. Only proxy-tab honors it.
	PrepareDelay time.Duration
}

// DefaultDeliveryOptions returns the popup-blocker-safe proxy-tab configuration.
func DefaultDeliveryOptions() DeliveryOptions {
	return DeliveryOptions{Mode: ModeProxyTab}
}

// Validate checks the mode and delay bounds.
func (o DeliveryOptions) Validate() error {
	if !o.Mode.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, o.Mode)
	}
	if err := validateDelay("cleanup delay", o.CleanupDelay); err != nil {
		return err
	}
	return validateDelay("prepare delay", o.PrepareDelay)
}

func validateDelay(name string, d time.Duration) error {
	if d < 0 || d > MaxDelay {
		return fmt.Errorf("%w: %s %v (must be between 0 and %v)", ErrInvalidDelay, name, d, MaxDelay)
	}
	return nil
}

// cleanupDelay resolves the effective grace period for the configured mode.
func (o DeliveryOptions) cleanupDelay() time.Duration {
	if o.CleanupDelay > 0 {
		return o.CleanupDelay
	}
	switch o.Mode {
	case ModeNewTab:
		return DefaultNewTabCleanupDelay
	case ModeProxyTab:
		return DefaultProxyTabCleanupDelay
	}
	return 0
}
