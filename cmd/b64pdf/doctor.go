package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/config"
	"github.com/alnah/go-b64pdf/internal/hints"
	"github.com/alnah/go-b64pdf/internal/samples"
)

// versionTimeout bounds "chrome --version".
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	Setup    setupInfo   `json:"setup"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// browserInfo holds Chrome/Chromium detection results.
type browserInfo struct {
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Source   string `json:"source,omitempty"` // flag, env, system
	Version  string `json:"version,omitempty"`
	Backend  string `json:"backend"`
	Sandbox  bool   `json:"sandbox"`
	Download bool   `json:"download"` // Chromium will be fetched on first launch
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// setupInfo holds configuration and local server checks.
type setupInfo struct {
	Config         string `json:"config"` // path, or "defaults"
	Mode           string `json:"mode"`
	Samples        int    `json:"samples"`
	LoopbackListen bool   `json:"loopback_listen"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkConfig(result)
	checkBrowser(result, cfg)
	checkEnvironment(result)
	checkSamples(result, cfg)
	checkLoopback(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig resolves the configuration the other commands would use.
// A broken config is an error; the remaining checks run on defaults.
func checkConfig(result *doctorResult) *config.Config {
	envCfg := loadEnvConfig()
	cfg, err := loadConfig("", envCfg)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		cfg = config.DefaultConfig()
	}
	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
	}

	result.Setup.Config = configSource(envCfg.ConfigPath)
	result.Setup.Mode = cfg.Delivery.Mode
	return cfg
}

// configSource names the file loadConfig picked, or "defaults".
func configSource(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range config.SearchPaths(defaultConfigName) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "defaults"
}

// checkBrowser reports which browser a session would launch.
func checkBrowser(result *doctorResult, cfg *config.Config) {
	status := b64pdf.DetectBrowser(b64pdf.BrowserOptions{Bin: cfg.Browser.Bin})
	result.Browser.Backend = cfg.Browser.Backend
	result.Browser.Sandbox = !status.NoSandbox

	if status.Downloaded {
		result.Browser.Download = true
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found; Chromium will be downloaded on first launch. Set ROD_BROWSER_BIN to use an installed browser")
		return
	}

	if _, err := os.Stat(status.Path); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s (from %s)", status.Path, status.Source))
		return
	}

	result.Browser.Found = true
	result.Browser.Path = status.Path
	result.Browser.Source = status.Source

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	// #nosec G204 -- the path comes from the user's own flag, env or PATH.
	out, err := exec.CommandContext(ctx, status.Path, "--version").Output()
	if err == nil {
		result.Browser.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Browser.Sandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
	if result.Env.CI {
		result.Warnings = append(result.Warnings,
			"CI detected: previews need a visible browser and a user to look at them")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("B64PDF_CONTAINER") == "1" {
		return true, "B64PDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSamples loads the sample catalog.
func checkSamples(result *doctorResult, cfg *config.Config) {
	catalog, err := samples.Open(cfg.Samples.Catalog)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Samples: %v", err))
		return
	}
	result.Setup.Samples = len(catalog.Samples)
}

// checkLoopback verifies the handle server can bind to 127.0.0.1.
func checkLoopback(result *doctorResult) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Cannot listen on 127.0.0.1: %v", err))
		return
	}
	_ = ln.Close()
	result.Setup.LoopbackListen = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "b64pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	switch {
	case r.Browser.Found:
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Browser.Path, r.Browser.Source)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
	case r.Browser.Download:
		fmt.Fprintln(w, "  [WARN] Not installed, will be downloaded")
	default:
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintf(w, "  [OK] Backend: %s\n", r.Browser.Backend)
	if r.Browser.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] Sandbox: disabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Setup")
	fmt.Fprintf(w, "  [OK] Config: %s\n", r.Setup.Config)
	if r.Setup.Mode != "" {
		fmt.Fprintf(w, "  [OK] Mode: %s\n", r.Setup.Mode)
	}
	fmt.Fprintf(w, "  [OK] Samples: %d\n", r.Setup.Samples)
	if r.Setup.LoopbackListen {
		fmt.Fprintln(w, "  [OK] Handle server: 127.0.0.1 available")
	} else {
		fmt.Fprintln(w, "  [ERROR] Handle server: cannot listen on 127.0.0.1")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to preview")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
