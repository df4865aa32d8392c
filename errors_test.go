package b64pdf

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorHierarchy(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrEmptyInput, ErrInvalidEncoding, ErrEmptyDocument, ErrInputTooLarge, ErrLineBreaks} {
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%v does not wrap ErrDecode", err)
		}
	}
	for _, err := range []error{ErrSurfaceUnavailable, ErrDeliveryFailed, ErrBusy} {
		if errors.Is(err, ErrDecode) {
			t.Errorf("%v must not wrap ErrDecode", err)
		}
	}
}

func TestUserMessage(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "")
	t.Setenv("ROD_NO_SANDBOX", "")

	tests := []struct {
		name     string
		err      error
		want     string
		wantHint string
	}{
		{"nil", nil, "", ""},
		{"empty input", ErrEmptyInput, "Please paste a Base64 string or a data URI first.", ""},
		{"too large", fmt.Errorf("%w: 9 bytes", ErrInputTooLarge), "The input is too large to preview.", ""},
		{"line breaks", ErrLineBreaks, "The input is not valid Base64: it contains line breaks.", "--wrapped"},
		{"invalid encoding", fmt.Errorf("%w: bad char", ErrInvalidEncoding), "The input is not valid Base64.", "replace '-' with '+'"},
		{"empty document", ErrEmptyDocument, "The input decodes to an empty document.", ""},
		{"popup blocked", fmt.Errorf("%w: blocked", ErrSurfaceUnavailable), "Could not open a new tab.", "allow popups"},
		{"busy", ErrBusy, "A preview is already loading. Please wait.", ""},
		{"browser", ErrBrowserConnect, "Could not start the browser.", "ROD_BROWSER_BIN"},
		{"delivery", deliveryError(errSurfaceClosed), "The document could not be displayed: " + errSurfaceClosed.Error(), ""},
		{"delivery after decode", deliveryError(ErrEmptyDocument), "The input decodes to an empty document.", ""},
		{"unknown", errBoom, "boom", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("UserMessage() = %q, want prefix %q", got, tt.want)
			}
			if tt.wantHint != "" && !strings.Contains(got, "hint: ") {
				t.Errorf("UserMessage() = %q, want a hint", got)
			}
			if tt.wantHint != "" && !strings.Contains(got, tt.wantHint) {
				t.Errorf("UserMessage() = %q, want hint containing %q", got, tt.wantHint)
			}
		})
	}
}
