package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/assets"
	"github.com/alnah/go-b64pdf/internal/config"
	"github.com/alnah/go-b64pdf/internal/fileutil"
	"github.com/alnah/go-b64pdf/internal/hints"
	"github.com/alnah/go-b64pdf/internal/samples"
)

// Exit codes for the b64pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document delivered or command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, input too large
	ExitBrowser = 4 // Browser launch or delivery errors
	ExitDecode  = 5 // Input is not a decodable document
)

// exitCodeFor returns the exit code for err.
// Decode errors are checked first: a proxy-tab delivery failure caused by
// bad input is still bad input.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, b64pdf.ErrDecode) {
		return ExitDecode
	}

	if errors.Is(err, b64pdf.ErrBrowserConnect) ||
		errors.Is(err, b64pdf.ErrSurfaceUnavailable) ||
		errors.Is(err, b64pdf.ErrDeliveryFailed) ||
		errors.Is(err, b64pdf.ErrHostClosed) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrInputTooLarge) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, b64pdf.ErrInvalidMode) ||
		errors.Is(err, b64pdf.ErrInvalidDelay) ||
		errors.Is(err, samples.ErrNotFound) ||
		errors.Is(err, samples.ErrInvalidSample) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}

// printError writes err to w. Errors from the document taxonomy get the same
// wording the browser notification uses; verbose adds the raw error.
func printError(w io.Writer, err error, verbose bool) {
	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		fmt.Fprintf(w, "error: %v%s\n", err, hints.ForConfigNotFound(notFound.Paths))
	case errors.Is(err, b64pdf.ErrDecode),
		errors.Is(err, b64pdf.ErrSurfaceUnavailable),
		errors.Is(err, b64pdf.ErrDeliveryFailed),
		errors.Is(err, b64pdf.ErrBrowserConnect):
		fmt.Fprintf(w, "error: %s\n", b64pdf.UserMessage(err))
		if verbose {
			fmt.Fprintf(w, "  detail: %v\n", err)
		}
	case errors.Is(err, ErrWriteOutput):
		fmt.Fprintf(w, "error: %v%s\n", err, hints.ForOutputDirectory())
	case errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}
