package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-b64pdf/internal/config"
)

// envConfig holds configuration from B64PDF_* environment variables.
type envConfig struct {
	ConfigPath string // B64PDF_CONFIG: config file name or path

	// Delivery
	Mode         string // B64PDF_MODE: new-tab, proxy-tab, same-tab
	CleanupDelay string // B64PDF_CLEANUP_DELAY: e.g. 30s
	PrepareDelay string // B64PDF_PREPARE_DELAY: e.g. 500ms

	// Browser
	Backend    string // B64PDF_BACKEND: rod or chromedp
	BrowserBin string // B64PDF_BROWSER_BIN: Chrome executable

	// Decoder
	MaxInputSize int  // B64PDF_MAX_INPUT_SIZE: bytes
	Wrapped      bool // B64PDF_WRAPPED: accept line breaks

	// Presentation
	Catalog   string // B64PDF_SAMPLES: extra sample catalog
	AssetPath string // B64PDF_ASSET_PATH: template override directory
	NoAlert   bool   // B64PDF_NO_ALERT: report errors on stderr only
}

// knownEnvVars lists valid B64PDF_* environment variables.
var knownEnvVars = map[string]bool{
	"B64PDF_CONFIG":         true,
	"B64PDF_MODE":           true,
	"B64PDF_CLEANUP_DELAY":  true,
	"B64PDF_PREPARE_DELAY":  true,
	"B64PDF_BACKEND":        true,
	"B64PDF_BROWSER_BIN":    true,
	"B64PDF_MAX_INPUT_SIZE": true,
	"B64PDF_WRAPPED":        true,
	"B64PDF_SAMPLES":        true,
	"B64PDF_ASSET_PATH":     true,
	"B64PDF_NO_ALERT":       true,
}

// loadEnvConfig reads the B64PDF_* variables. Unparsable numbers and
// booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("B64PDF_CONFIG"),
		Mode:         os.Getenv("B64PDF_MODE"),
		CleanupDelay: os.Getenv("B64PDF_CLEANUP_DELAY"),
		PrepareDelay: os.Getenv("B64PDF_PREPARE_DELAY"),
		Backend:      os.Getenv("B64PDF_BACKEND"),
		BrowserBin:   os.Getenv("B64PDF_BROWSER_BIN"),
		Catalog:      os.Getenv("B64PDF_SAMPLES"),
		AssetPath:    os.Getenv("B64PDF_ASSET_PATH"),
	}

	if size := os.Getenv("B64PDF_MAX_INPUT_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.MaxInputSize = n
		}
	}
	cfg.Wrapped = envBool("B64PDF_WRAPPED")
	cfg.NoAlert = envBool("B64PDF_NO_ALERT")

	return cfg
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

// warnUnknownEnvVars logs warnings for unrecognized B64PDF_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "B64PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides file values with every variable that is set.
// Precedence: flags > env > config file > defaults; flags are applied later.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Mode != "" {
		cfg.Delivery.Mode = env.Mode
	}
	if env.CleanupDelay != "" {
		cfg.Delivery.CleanupDelay = env.CleanupDelay
	}
	if env.PrepareDelay != "" {
		cfg.Delivery.PrepareDelay = env.PrepareDelay
	}

	if env.Backend != "" {
		cfg.Browser.Backend = env.Backend
	}
	if env.BrowserBin != "" {
		cfg.Browser.Bin = env.BrowserBin
	}

	if env.MaxInputSize > 0 {
		cfg.Decoder.MaxInputSize = env.MaxInputSize
	}
	if env.Wrapped {
		cfg.Decoder.Wrapped = true
	}

	if env.Catalog != "" {
		cfg.Samples.Catalog = env.Catalog
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.NoAlert {
		cfg.Notify.Disabled = true
	}
}
