// Package hints provides actionable hints for common failure scenarios.
// Every hint is formatted as "\n  hint: <text>" so it can be appended to a message.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-b64pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a known CI provider variable is set.
func inCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for browser launch and connection errors.
func ForBrowserConnect() string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForSurfaceUnavailable returns the popup blocker hint.
func ForSurfaceUnavailable() string {
	return format("allow popups for this site, or switch to --mode same-tab")
}

// ForInvalidEncoding returns the alphabet hint for rejected Base64 input.
// URL-safe Base64 ('-' and '_') is the most common mismatch.
func ForInvalidEncoding() string {
	return format("only standard Base64 (A-Z a-z 0-9 + /) is accepted; replace '-' with '+' and '_' with '/' for URL-safe input")
}

// ForLineBreaks returns a hint for wrapped Base64 input.
func ForLineBreaks() string {
	return format("input contains line breaks; use --wrapped to accept wrapped Base64")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the first user config path that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-b64pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForSampleNotFound lists the sample names that do exist.
func ForSampleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
