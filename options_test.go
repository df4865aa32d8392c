package b64pdf

import (
	"errors"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"new-tab", ModeNewTab, false},
		{"proxy-tab", ModeProxyTab, false},
		{"same-tab", ModeSameTab, false},
		{"  Same-Tab ", ModeSameTab, false},
		{"PROXY-TAB", ModeProxyTab, false},
		{"", "", true},
		{"newtab", "", true},
		{"window", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMode_OpensSurface(t *testing.T) {
	t.Parallel()

	want := map[Mode]bool{ModeNewTab: true, ModeProxyTab: true, ModeSameTab: false}
	for _, m := range Modes() {
		if got := m.OpensSurface(); got != want[m] {
			t.Errorf("%s.OpensSurface() = %v, want %v", m, got, want[m])
		}
	}
}

func TestDeliveryOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    DeliveryOptions
		wantErr error
	}{
		{"defaults", DefaultDeliveryOptions(), nil},
		{"max delays", DeliveryOptions{Mode: ModeProxyTab, CleanupDelay: MaxDelay, PrepareDelay: MaxDelay}, nil},
		{"empty mode", DeliveryOptions{}, ErrInvalidMode},
		{"unknown mode", DeliveryOptions{Mode: "tab"}, ErrInvalidMode},
		{"negative cleanup", DeliveryOptions{Mode: ModeNewTab, CleanupDelay: -1}, ErrInvalidDelay},
		{"cleanup too long", DeliveryOptions{Mode: ModeNewTab, CleanupDelay: MaxDelay + time.Second}, ErrInvalidDelay},
		{"negative prepare", DeliveryOptions{Mode: ModeProxyTab, PrepareDelay: -time.Millisecond}, ErrInvalidDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeliveryOptions_CleanupDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts DeliveryOptions
		want time.Duration
	}{
		{DeliveryOptions{Mode: ModeNewTab}, DefaultNewTabCleanupDelay},
		{DeliveryOptions{Mode: ModeProxyTab}, DefaultProxyTabCleanupDelay},
		{DeliveryOptions{Mode: ModeSameTab}, 0},
		{DeliveryOptions{Mode: ModeNewTab, CleanupDelay: 3 * time.Second}, 3 * time.Second},
		{DeliveryOptions{Mode: ModeSameTab, CleanupDelay: time.Minute}, time.Minute},
	}

	for _, tt := range tests {
		if got := tt.opts.cleanupDelay(); got != tt.want {
			t.Errorf("%+v cleanupDelay() = %v, want %v", tt.opts, got, tt.want)
		}
	}
}
