package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/config"
	"github.com/alnah/go-b64pdf/internal/samples"
)

// session is a running browser with a previewer attached.
type session struct {
	host      browserHost
	previewer *b64pdf.Previewer
	catalog   *samples.Catalog
	log       *logger
}

// logger writes CLI progress lines, honoring --quiet and --verbose.
// Safe for concurrent use.
type logger struct {
	mu      sync.Mutex
	w       io.Writer
	quiet   bool
	verbose bool
}

// Infof prints unless --quiet.
func (l *logger) Infof(format string, args ...any) {
	if !l.quiet {
		l.printf(format, args...)
	}
}

// Debugf prints only with --verbose.
func (l *logger) Debugf(format string, args ...any) {
	if l.verbose {
		l.printf(format, args...)
	}
}

// Warnf always prints.
func (l *logger) Warnf(format string, args ...any) {
	l.printf(format, args...)
}

func (l *logger) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format+"\n", args...)
}

// diagWriter returns the writer for library diagnostics, or nil.
func (l *logger) diagWriter() io.Writer {
	if l.verbose {
		return l.w
	}
	return nil
}

// errWriter returns the writer for library failure lines, or nil under --quiet.
func (l *logger) errWriter() io.Writer {
	if l.quiet {
		return nil
	}
	return l.w
}

func newLogger(env *Environment, f *commonFlags) *logger {
	return &logger{w: env.Stderr, quiet: f.quiet, verbose: f.verbose && !f.quiet}
}

// openSession launches the browser and builds the previewer described by cfg.
func openSession(ctx context.Context, cfg *config.Config, f *sessionFlags, env *Environment) (*session, error) {
	log := newLogger(env, &f.common)

	delivery, err := cfg.DeliveryOptions()
	if err != nil {
		return nil, err
	}
	catalog, err := samples.Open(cfg.Samples.Catalog)
	if err != nil {
		return nil, err
	}

	opts := browserOptions(cfg, &f.browser)
	if log.verbose {
		opts.AccessLog = env.Stderr
	}
	log.Debugf("Launching browser (%s)...", cfg.Browser.Backend)
	host, err := env.LaunchHost(ctx, cfg.Browser.Backend, opts)
	if err != nil {
		return nil, err
	}

	popts := []b64pdf.Option{
		b64pdf.WithDeliveryOptions(delivery),
		b64pdf.WithDecoder(newDecoder(cfg)),
		b64pdf.WithLog(log.diagWriter()),
		b64pdf.WithErrorLog(log.errWriter()),
		b64pdf.WithAssetPath(cfg.Assets.BasePath),
	}
	if !cfg.Notify.Disabled {
		popts = append(popts, b64pdf.WithNotifier(host))
	}
	previewer, err := b64pdf.NewPreviewer(host, popts...)
	if err != nil {
		_ = host.Close()
		return nil, err
	}

	return &session{host: host, previewer: previewer, catalog: catalog, log: log}, nil
}

// close flushes outstanding handles and stops the browser.
func (s *session) close() error {
	n := s.previewer.Outstanding()
	err := errors.Join(s.previewer.Close(), s.host.Close())
	s.log.Debugf("Revoked %d outstanding document(s)", n)
	return err
}

// wait blocks until the user closes the browser or interrupts the CLI.
func (s *session) wait(ctx context.Context) {
	select {
	case <-s.host.Done():
		s.log.Debugf("Browser closed")
	case <-ctx.Done():
		s.log.Debugf("Interrupted")
	}
}
