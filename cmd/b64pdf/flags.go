package main

import (
	"errors"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/config"
)

// CLI errors.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("no input: pass a file, - for stdin, or --data")
	ErrWriteOutput = errors.New("cannot write output")
)

// defaultConfigName is looked up silently when no config is named.
const defaultConfigName = "b64pdf"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// deliveryFlags holds the strategy flags.
type deliveryFlags struct {
	mode         string
	cleanupDelay string
	prepareDelay string
}

// browserFlags holds the browser backend flags.
type browserFlags struct {
	backend   string
	bin       string
	noSandbox bool
	headless  bool
}

// decoderFlags holds input decoding flags.
type decoderFlags struct {
	wrapped      bool
	maxInputSize int
}

// presentFlags holds flags for what the browser shows.
type presentFlags struct {
	catalog   string
	assetPath string
	noAlert   bool
}

// sessionFlags holds everything needed to open a browser session.
type sessionFlags struct {
	common   commonFlags
	delivery deliveryFlags
	browser  browserFlags
	decoder  decoderFlags
	present  presentFlags
}

// previewFlags holds flags for the preview and sample commands.
type previewFlags struct {
	session sessionFlags
	data    string
}

// decodeCmdFlags holds flags for the decode command.
type decodeCmdFlags struct {
	common  commonFlags
	decoder decoderFlags
	output  string
	force   bool
}

// samplesFlags holds flags for the samples command.
type samplesFlags struct {
	common  commonFlags
	catalog string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show diagnostics")
}

// addDeliveryFlags adds delivery strategy flags to a FlagSet.
func addDeliveryFlags(fs *flag.FlagSet, f *deliveryFlags) {
	fs.StringVarP(&f.mode, "mode", "m", "", "delivery mode: new-tab, proxy-tab, same-tab")
	fs.StringVar(&f.cleanupDelay, "cleanup-delay", "", "revoke the document after this delay (e.g. 30s)")
	fs.StringVar(&f.prepareDelay, "prepare-delay", "", "simulated latency before decoding (proxy-tab)")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.backend, "backend", "", "browser driver: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome executable")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.BoolVar(&f.headless, "headless", false, "hide the browser window (testing only)")
	_ = fs.MarkHidden("headless")
}

// addDecoderFlags adds decoding flags to a FlagSet.
func addDecoderFlags(fs *flag.FlagSet, f *decoderFlags) {
	fs.BoolVar(&f.wrapped, "wrapped", false, "accept line breaks inside the Base64 payload")
	fs.IntVar(&f.maxInputSize, "max-size", 0, "maximum input size in bytes (0 = config or 64 MiB)")
}

// addPresentFlags adds presentation flags to a FlagSet.
func addPresentFlags(fs *flag.FlagSet, f *presentFlags) {
	fs.StringVar(&f.catalog, "catalog", "", "extra sample catalog (YAML)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template and style directory")
	fs.BoolVar(&f.noAlert, "no-alert", false, "report errors on stderr only")
}

// addSessionFlags registers every session flag group.
func addSessionFlags(fs *flag.FlagSet, f *sessionFlags) {
	addCommonFlags(fs, &f.common)
	addDeliveryFlags(fs, &f.delivery)
	addBrowserFlags(fs, &f.browser)
	addDecoderFlags(fs, &f.decoder)
	addPresentFlags(fs, &f.present)
}

// buildPreviewFlagSet registers the preview flags. The sample command shares them.
func buildPreviewFlagSet(name string, f *previewFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addSessionFlags(fs, &f.session)
	if name == "preview" {
		fs.StringVarP(&f.data, "data", "d", "", "Base64 or data URI given inline")
	}
	return fs
}

// buildShellFlagSet registers the shell flags.
func buildShellFlagSet(f *sessionFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	addSessionFlags(fs, f)
	return fs
}

// buildDecodeFlagSet registers the decode flags.
func buildDecodeFlagSet(f *decodeCmdFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addDecoderFlags(fs, &f.decoder)
	fs.StringVarP(&f.output, "output", "o", "", "output file, or directory for several inputs")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite existing files")
	return fs
}

// buildSamplesFlagSet registers the samples flags.
func buildSamplesFlagSet(f *samplesFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("samples", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.catalog, "catalog", "", "extra sample catalog (YAML)")
	return fs
}

// loadConfig resolves the config file: --config, then B64PDF_CONFIG, then
// an optional "b64pdf" file in the search paths, then defaults.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		return config.LoadConfig(name)
	}

	cfg, err := config.LoadConfig(defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// resolveConfig layers defaults, file, environment and the flags the user
// actually set, then validates the result.
func resolveConfig(fs *flag.FlagSet, f *sessionFlags) (*config.Config, error) {
	envCfg := loadEnvConfig()
	cfg, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)
	applySessionFlags(fs, f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySessionFlags copies explicitly set flags over cfg.
func applySessionFlags(fs *flag.FlagSet, f *sessionFlags, cfg *config.Config) {
	if fs.Changed("mode") {
		cfg.Delivery.Mode = f.delivery.mode
	}
	if fs.Changed("cleanup-delay") {
		cfg.Delivery.CleanupDelay = f.delivery.cleanupDelay
	}
	if fs.Changed("prepare-delay") {
		cfg.Delivery.PrepareDelay = f.delivery.prepareDelay
	}
	if fs.Changed("backend") {
		cfg.Browser.Backend = strings.ToLower(f.browser.backend)
	}
	if fs.Changed("browser-bin") {
		cfg.Browser.Bin = f.browser.bin
	}
	applyDecoderFlags(fs, &f.decoder, cfg)
	if fs.Changed("catalog") {
		cfg.Samples.Catalog = f.present.catalog
	}
	if fs.Changed("asset-path") {
		cfg.Assets.BasePath = f.present.assetPath
	}
	if fs.Changed("no-alert") {
		cfg.Notify.Disabled = f.present.noAlert
	}
}

// applyDecoderFlags copies explicitly set decoder flags over cfg.
func applyDecoderFlags(fs *flag.FlagSet, f *decoderFlags, cfg *config.Config) {
	if fs.Changed("wrapped") {
		cfg.Decoder.Wrapped = f.wrapped
	}
	if fs.Changed("max-size") {
		cfg.Decoder.MaxInputSize = f.maxInputSize
	}
}

// newDecoder builds the decoder described by cfg.
func newDecoder(cfg *config.Config) *b64pdf.Decoder {
	opts := []b64pdf.DecoderOption{b64pdf.WithMaxInputSize(cfg.EffectiveMaxInputSize())}
	if cfg.Decoder.Wrapped {
		opts = append(opts, b64pdf.WithLineBreaks())
	}
	return b64pdf.NewDecoder(opts...)
}

// browserOptions builds the host options from cfg and flags.
func browserOptions(cfg *config.Config, f *browserFlags) b64pdf.BrowserOptions {
	return b64pdf.BrowserOptions{
		Bin:       cfg.Browser.Bin,
		NoSandbox: f.noSandbox,
		Headless:  f.headless,
	}
}
