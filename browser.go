package b64pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/go-rod/rod/lib/launcher"
)

// BrowserOptions configures the browser behind RodHost and CDPHost.
type BrowserOptions struct {
	// Bin is the Chrome executable. Empty uses ROD_BROWSER_BIN, then an
	// installed browser, then a downloaded Chromium.
	Bin string

	// NoSandbox disables the Chrome sandbox. ROD_NO_SANDBOX=1 and CI=true
	// enable it too.
	NoSandbox bool

	// Headless hides the browser window. Only useful for tests: a headless
	// browser shows the user nothing.
	Headless bool

	// AccessLog receives one line per handle request.
	AccessLog io.Writer
}

// withEnv applies the ROD_* and CI environment variables.
func (o BrowserOptions) withEnv() BrowserOptions {
	if o.Bin == "" {
		o.Bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		o.NoSandbox = true
	}
	return o
}

// resolveBrowserBin returns an executable path for o, downloading Chromium
// into rod's cache when nothing is installed.
func resolveBrowserBin(o BrowserOptions) (string, error) {
	if o.Bin != "" {
		return o.Bin, nil
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("%w: downloading browser: %v", ErrBrowserConnect, err)
	}
	return path, nil
}

// BrowserStatus describes the browser a host would launch.
type BrowserStatus struct {
	Path       string
	Source     string // "flag", "env", "system", or "" when none was found
	NoSandbox  bool
	InCI       bool
	Downloaded bool // true when rod's cached download would be used
}

// DetectBrowser reports which browser would be used without launching it.
func DetectBrowser(o BrowserOptions) BrowserStatus {
	status := BrowserStatus{InCI: os.Getenv("CI") != ""}

	switch {
	case o.Bin != "":
		status.Path, status.Source = o.Bin, "flag"
	case os.Getenv("ROD_BROWSER_BIN") != "":
		status.Path, status.Source = os.Getenv("ROD_BROWSER_BIN"), "env"
	default:
		if path, ok := launcher.LookPath(); ok {
			status.Path, status.Source = path, "system"
		} else {
			status.Downloaded = true
		}
	}
	status.NoSandbox = o.withEnv().NoSandbox
	return status
}
