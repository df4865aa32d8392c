// Package b64pdf decodes Base64-encoded PDFs and shows them in the user's
// browser without sending the document anywhere.
//
// # Quick Start
//
// Launch a browser host, create a previewer, and preview a string:
//
//	host, err := b64pdf.NewRodHost(ctx, b64pdf.BrowserOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Close()
//
//	p, err := b64pdf.NewPreviewer(host, b64pdf.WithNotifier(host))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	_ = p.Preview(ctx, "data:application/pdf;base64,JVBERi0xLjQK...")
//
// # Decoding
//
// [Decode] accepts raw Base64 or a data URI. The exact header
// "data:application/pdf;base64," is stripped first; any other "data:" header
// is stripped up to the first comma. Only the standard alphabet is accepted,
// with at most two padding characters. Failures wrap [ErrDecode]:
// [ErrEmptyInput], [ErrInvalidEncoding], [ErrEmptyDocument], [ErrInputTooLarge].
//
// # Delivery Modes
//
//   - new-tab: opens a tab pointed at the document handle; the handle is
//     revoked after a 10 second grace period.
//   - proxy-tab: opens a blank tab first, shows a loading page, then swaps in
//     an embedded viewer; the handle is revoked after 60 seconds. If anything
//     fails after the tab opened, the tab is closed.
//   - same-tab: navigates the application tab; the handle is revoked when the
//     tab leaves the document, or on Close.
//
// # Handles
//
// Documents are served from a loopback HTTP server under random IDs. A
// revoked handle answers 410 Gone.
//
// # Testing
//
// [Host], [Surface], [Notifier] and [Scheduler] are interfaces, so strategies
// can be exercised with recording fakes and a manual clock instead of a browser.
//
// # Browser Requirements
//
// The browser hosts need Chrome or Chromium. Rod downloads Chromium on first
// run when none is installed. Set ROD_BROWSER_BIN to use a specific binary and
// ROD_NO_SANDBOX=1 in containers.
package b64pdf
