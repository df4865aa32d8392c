package b64pdf

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Data URI prefixes recognized before alphabet validation.
const (
	pdfDataURIPrefix = "data:application/pdf;base64,"
	dataURIScheme    = "data:"
)

// maxPadding is the number of trailing '=' characters tolerated.
const maxPadding = 2

// Decoder converts Base64 text, raw or wrapped in a data URI, into a Document.
// The zero value is ready to use and applies no size limit.
type Decoder struct {
	maxInputSize    int
	allowLineBreaks bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxInputSize rejects inputs longer than n bytes with ErrInputTooLarge.
// A value <= 0 disables the limit.
func WithMaxInputSize(n int) DecoderOption {
	return func(d *Decoder) {
		d.maxInputSize = n
	}
}

// WithLineBreaks accepts CR and LF inside the payload, as produced by
// tools that wrap Base64 at a fixed column.
func WithLineBreaks() DecoderOption {
	return func(d *Decoder) {
		d.allowLineBreaks = true
	}
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// defaultDecoder backs the package-level Decode.
var defaultDecoder = NewDecoder()

// Decode converts input with a default Decoder.
func Decode(input string) (*Document, error) {
	return defaultDecoder.Decode(input)
}

// Decode validates input and returns the decoded document.
//
// The steps run in this order: empty check, size check, data URI prefix
// stripping, alphabet validation, decoding, empty-document check. Only the
// standard alphabet is accepted; URL-safe input ('-', '_') is rejected.
func (d *Decoder) Decode(input string) (*Document, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	if d.maxInputSize > 0 && len(input) > d.maxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(input), d.maxInputSize)
	}

	payload := StripDataURI(trimmed)
	if d.allowLineBreaks {
		payload = strings.NewReplacer("\r", "", "\n", "").Replace(payload)
	}

	body, err := validateAlphabet(payload)
	if err != nil {
		return nil, err
	}

	data, err := decodeBody(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	return &Document{Data: data, MIMEType: MIMETypePDF}, nil
}

// StripDataURI removes a data URI header from s.
// The exact PDF header is stripped first; otherwise any "data:" header is
// stripped up to and including the first comma. Raw Base64 is returned as is.
func StripDataURI(s string) string {
	if strings.HasPrefix(s, pdfDataURIPrefix) {
		return s[len(pdfDataURIPrefix):]
	}
	if strings.HasPrefix(s, dataURIScheme) {
		if idx := strings.IndexByte(s, ','); idx >= 0 {
			return s[idx+1:]
		}
	}
	return s
}

// validateAlphabet checks s against [A-Za-z0-9+/]*={0,2} and returns the
// payload with its padding removed.
func validateAlphabet(s string) (string, error) {
	body := strings.TrimRight(s, "=")
	if padding := len(s) - len(body); padding > maxPadding {
		return "", fmt.Errorf("%w: %d padding characters (max %d)", ErrInvalidEncoding, padding, maxPadding)
	}

	for i := 0; i < len(body); i++ {
		if body[i] == '\n' || body[i] == '\r' {
			return "", fmt.Errorf("%w at offset %d", ErrLineBreaks, i)
		}
		if !isBase64Char(body[i]) {
			return "", fmt.Errorf("%w: unexpected character %q at offset %d", ErrInvalidEncoding, body[i], i)
		}
	}
	return body, nil
}

// isBase64Char reports whether c belongs to the standard alphabet.
func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '/':
		return true
	}
	return false
}

// decodeBody decodes an unpadded payload. A trailing group of a single
// character cannot encode a byte and is rejected.
func decodeBody(body string) ([]byte, error) {
	if len(body)%4 == 1 {
		return nil, fmt.Errorf("%w: truncated final group", ErrInvalidEncoding)
	}
	data, err := base64.RawStdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}
