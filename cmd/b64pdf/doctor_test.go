package main

// Notes:
// - Browser detection depends on the machine; assertions only check that the
//   output is consistent with itself.
// - Tests that set environment variables cannot use t.Parallel().

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - machine-readable report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	exitCode := runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, te.stdout.String())
	}

	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("invalid status %q", result.Status)
	}
	if result.Status == "errors" && exitCode != ExitGeneral {
		t.Errorf("exit code = %d for errors status, want %d", exitCode, ExitGeneral)
	}
	if result.Status != "errors" && exitCode != ExitSuccess {
		t.Errorf("exit code = %d for %s status, want %d", exitCode, result.Status, ExitSuccess)
	}

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if result.Browser.Backend == "" {
		t.Error("backend should be reported")
	}
	if result.Setup.Samples == 0 {
		t.Error("built-in samples should be counted")
	}
	if !result.Setup.LoopbackListen {
		t.Error("loopback listen should succeed in tests")
	}
	if result.Browser.Found && result.Browser.Path == "" {
		t.Error("found browser without a path")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - readable report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	runDoctorCmd(nil, te.Environment)

	out := te.stdout.String()
	for _, section := range []string{"b64pdf doctor", "Browser", "Environment", "Setup", "Handle server", "Status:"} {
		if !strings.Contains(out, section) {
			t.Errorf("output missing %q:\n%s", section, out)
		}
	}
}

// ---------------------------------------------------------------------------
// Environment-dependent checks
// ---------------------------------------------------------------------------

func TestRunDoctor_ContainerOverride(t *testing.T) {
	t.Setenv("B64PDF_CONTAINER", "1")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("CI", "")

	result := runDoctor()
	if !result.Env.Container || result.Env.ContainerHint != "B64PDF_CONTAINER=1" {
		t.Errorf("container = %v (%q), want detected via override", result.Env.Container, result.Env.ContainerHint)
	}
	if !containsSubstring(result.Warnings, "ROD_NO_SANDBOX") {
		t.Errorf("warnings %v should suggest ROD_NO_SANDBOX", result.Warnings)
	}
}

func TestRunDoctor_BrowserBinMissing(t *testing.T) {
	t.Setenv("B64PDF_BROWSER_BIN", filepath.Join(t.TempDir(), "no-chrome"))

	result := runDoctor()
	if result.Status != "errors" {
		t.Errorf("status = %q, want errors", result.Status)
	}
	if result.Browser.Found {
		t.Error("a missing binary should not be found")
	}
	if !containsSubstring(result.Errors, "(from flag)") {
		t.Errorf("errors %v should name where the path came from", result.Errors)
	}
}

func TestRunDoctor_BrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("delivery:\n  mode: popup\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("B64PDF_CONFIG", path)

	result := runDoctor()
	if !containsSubstring(result.Errors, "Config:") {
		t.Errorf("errors %v should report the config", result.Errors)
	}
	if result.Setup.Config != path {
		t.Errorf("config = %q, want %q", result.Setup.Config, path)
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
