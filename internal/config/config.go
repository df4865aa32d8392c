// Package config loads the YAML configuration file for the b64pdf CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/fileutil"
	"github.com/alnah/go-b64pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxDurationLength = 20 // "10m0s", "1500ms"
)

// Browser backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// DefaultMaxInputSize caps Base64 input read by the CLI (64 MiB of text).
const DefaultMaxInputSize = 64 << 20

// Config holds the CLI configuration.
type Config struct {
	Delivery DeliveryConfig `yaml:"delivery"`
	Browser  BrowserConfig  `yaml:"browser"`
	Decoder  DecoderConfig  `yaml:"decoder"`
	Samples  SamplesConfig  `yaml:"samples"`
	Assets   AssetsConfig   `yaml:"assets"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// DeliveryConfig selects the delivery technique and its timing.
// Durations use Go syntax ("10s", "1m30s"); empty means the mode default.
type DeliveryConfig struct {
	Mode         string `yaml:"mode"`
	CleanupDelay string `yaml:"cleanupDelay"`
	PrepareDelay string `yaml:"prepareDelay"`
}

// BrowserConfig selects the browser backend.
type BrowserConfig struct {
	Backend string `yaml:"backend"` // "rod" (default) or "chromedp"
	Bin     string `yaml:"bin"`     // Chrome binary; empty = ROD_BROWSER_BIN or auto-detect
}

// DecoderConfig bounds and relaxes Base64 decoding.
type DecoderConfig struct {
	MaxInputSize int  `yaml:"maxInputSize"` // bytes; 0 = DefaultMaxInputSize
	Wrapped      bool `yaml:"wrapped"`      // accept line breaks inside the payload
}

// SamplesConfig points at an additional sample catalog.
type SamplesConfig struct {
	Catalog string `yaml:"catalog"` // YAML file merged over the built-in catalog
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// NotifyConfig controls the in-browser notification.
type NotifyConfig struct {
	Disabled bool `yaml:"disabled"` // report errors on stderr only
}

// DefaultConfig returns the proxy-tab configuration with the rod backend.
func DefaultConfig() *Config {
	return &Config{
		Delivery: DeliveryConfig{Mode: string(b64pdf.ModeProxyTab)},
		Browser:  BrowserConfig{Backend: BackendRod},
		Decoder:  DecoderConfig{MaxInputSize: DefaultMaxInputSize},
	}
}

// Validate checks values that YAML typing cannot.
// Called by LoadConfig, and again by the CLI after env and flag overrides.
func (c *Config) Validate() error {
	if c.Delivery.Mode != "" {
		if _, err := b64pdf.ParseMode(c.Delivery.Mode); err != nil {
			return fmt.Errorf("delivery.mode: %w", err)
		}
	}
	if _, err := parseDelay("delivery.cleanupDelay", c.Delivery.CleanupDelay); err != nil {
		return err
	}
	if _, err := parseDelay("delivery.prepareDelay", c.Delivery.PrepareDelay); err != nil {
		return err
	}

	switch strings.ToLower(c.Browser.Backend) {
	case "", BackendRod, BackendChromedp:
	default:
		return fmt.Errorf("%w: browser.backend %q (must be rod or chromedp)", ErrInvalidValue, c.Browser.Backend)
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}

	if c.Decoder.MaxInputSize < 0 {
		return fmt.Errorf("%w: decoder.maxInputSize must not be negative, got %d", ErrInvalidValue, c.Decoder.MaxInputSize)
	}

	if err := validateFieldLength("samples.catalog", c.Samples.Catalog, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

// DeliveryOptions converts the delivery section into library options.
func (c *Config) DeliveryOptions() (b64pdf.DeliveryOptions, error) {
	opts := b64pdf.DefaultDeliveryOptions()

	if c.Delivery.Mode != "" {
		mode, err := b64pdf.ParseMode(c.Delivery.Mode)
		if err != nil {
			return opts, fmt.Errorf("delivery.mode: %w", err)
		}
		opts.Mode = mode
	}

	var err error
	if opts.CleanupDelay, err = parseDelay("delivery.cleanupDelay", c.Delivery.CleanupDelay); err != nil {
		return opts, err
	}
	if opts.PrepareDelay, err = parseDelay("delivery.prepareDelay", c.Delivery.PrepareDelay); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

// EffectiveMaxInputSize returns the input cap with the default applied.
func (c *Config) EffectiveMaxInputSize() int {
	if c.Decoder.MaxInputSize == 0 {
		return DefaultMaxInputSize
	}
	return c.Decoder.MaxInputSize
}

// parseDelay parses an optional duration and checks it against b64pdf.MaxDelay.
func parseDelay(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	if err := validateFieldLength(field, value, MaxDurationLength); err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, field, value, err)
	}
	if d < 0 || d > b64pdf.MaxDelay {
		return 0, fmt.Errorf("%w: %s %v (must be between 0 and %v)", ErrInvalidValue, field, d, b64pdf.MaxDelay)
	}
	return d, nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched as a name in standard locations.
// Missing files are an error; there is no silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-b64pdf", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", &NotFoundError{Paths: paths}
}

// NotFoundError lists every path tried while resolving a config name.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Paths, ", "))
}

// Is lets errors.Is match ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}
