package b64pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-b64pdf/internal/hints"
)

// ErrDecode is the umbrella for every decoding failure.
var ErrDecode = errors.New("cannot decode document")

// Decoding errors. Each one wraps ErrDecode.
var (
	ErrEmptyInput      = fmt.Errorf("%w: no Base64 input supplied", ErrDecode)
	ErrInvalidEncoding = fmt.Errorf("%w: input is not valid Base64", ErrDecode)
	ErrEmptyDocument   = fmt.Errorf("%w: decoded document is empty", ErrDecode)
	ErrInputTooLarge   = fmt.Errorf("%w: input exceeds maximum size", ErrDecode)
)

// ErrLineBreaks is the InvalidEncoding case for wrapped Base64 read without
// WithLineBreaks.
var ErrLineBreaks = fmt.Errorf("%w: line break inside payload", ErrInvalidEncoding)

// Delivery errors.
var (
	// ErrSurfaceUnavailable means the host refused to create a new browsing context.
	ErrSurfaceUnavailable = errors.New("cannot open a new browser tab")

	// ErrDeliveryFailed wraps any failure that happens after a browsing
	// context was already created. The cause stays matchable with errors.Is.
	ErrDeliveryFailed = errors.New("document delivery failed")

	// ErrBusy is returned while another delivery is in flight.
	ErrBusy = errors.New("a preview is already in progress")
)

// Configuration errors.
var (
	ErrInvalidMode  = errors.New("invalid delivery mode")
	ErrInvalidDelay = errors.New("invalid delay")
)

// Lifecycle errors.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrHostClosed     = errors.New("browser host is closed")
	ErrClosed         = errors.New("previewer is closed")
)

// UserMessage converts an error into the text shown in a blocking notification.
// Known sentinels get a fixed message and an actionable hint; anything else
// falls back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var msg, hint string
	switch {
	case errors.Is(err, ErrEmptyInput):
		msg = "Please paste a Base64 string or a data URI first."
	case errors.Is(err, ErrInputTooLarge):
		msg = "The input is too large to preview."
	case errors.Is(err, ErrLineBreaks):
		msg = "The input is not valid Base64: it contains line breaks."
		hint = hints.ForLineBreaks()
	case errors.Is(err, ErrInvalidEncoding):
		msg = "The input is not valid Base64."
		hint = hints.ForInvalidEncoding()
	case errors.Is(err, ErrEmptyDocument):
		msg = "The input decodes to an empty document."
	case errors.Is(err, ErrSurfaceUnavailable):
		msg = "Could not open a new tab."
		hint = hints.ForSurfaceUnavailable()
	case errors.Is(err, ErrBusy):
		msg = "A preview is already loading. Please wait."
	case errors.Is(err, ErrBrowserConnect):
		msg = "Could not start the browser."
		hint = hints.ForBrowserConnect()
	case errors.Is(err, ErrDeliveryFailed):
		msg = "The document could not be displayed: " + causeOf(err)
	default:
		msg = err.Error()
	}

	return msg + hint
}

// causeOf strips the ErrDeliveryFailed prefix from a wrapped delivery error.
func causeOf(err error) string {
	text := err.Error()
	prefix := ErrDeliveryFailed.Error() + ": "
	return strings.TrimPrefix(text, prefix)
}
