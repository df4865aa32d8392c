package b64pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Sample is a catalog entry that can be previewed without typing input.
type Sample struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"` // Markdown
	Data        string `yaml:"data"`        // Base64 or data URI
}

// Option configures a Previewer.
type Option func(*previewerConfig)

type previewerConfig struct {
	delivery  DeliveryOptions
	decoder   *Decoder
	notifier  Notifier
	sched     Scheduler
	log       io.Writer
	errLog    io.Writer
	assetPath string
}

// WithDeliveryOptions sets the initial mode and delays.
func WithDeliveryOptions(opts DeliveryOptions) Option {
	return func(c *previewerConfig) {
		c.delivery = opts
	}
}

// WithDecoder replaces the default Decoder.
func WithDecoder(d *Decoder) Option {
	return func(c *previewerConfig) {
		c.decoder = d
	}
}

// WithNotifier sets where user-facing error messages go.
// Without one, errors are only logged and returned.
func WithNotifier(n Notifier) Option {
	return func(c *previewerConfig) {
		c.notifier = n
	}
}

// WithScheduler replaces SystemScheduler, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *previewerConfig) {
		c.sched = s
	}
}

// WithLog enables diagnostic lines on w.
func WithLog(w io.Writer) Option {
	return func(c *previewerConfig) {
		c.log = w
	}
}

// WithErrorLog sends the "preview failed" lines to w instead of the
// diagnostic log, so failures can be reported without the rest of it.
func WithErrorLog(w io.Writer) Option {
	return func(c *previewerConfig) {
		c.errLog = w
	}
}

// WithAssetPath loads templates and styles from dir, falling back to the
// embedded ones for anything dir does not provide.
func WithAssetPath(dir string) Option {
	return func(c *previewerConfig) {
		c.assetPath = dir
	}
}

// Previewer is the action boundary: it runs one delivery per user action,
// turns every failure into a notification and a log line, and keeps the
// handles it created revocable until Close.
type Previewer struct {
	host     Host
	decoder  *Decoder
	notifier Notifier
	sched    Scheduler
	log      *diagLog
	errLog   *diagLog
	pages    pageBuilder

	busy atomic.Bool

	mu         sync.Mutex
	opts       DeliveryOptions
	strategies map[Mode]Strategy
	closed     bool
}

// NewPreviewer creates a Previewer presenting documents through host.
func NewPreviewer(host Host, opts ...Option) (*Previewer, error) {
	if host == nil {
		return nil, errors.New("b64pdf: nil host")
	}

	cfg := previewerConfig{delivery: DefaultDeliveryOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.delivery.Validate(); err != nil {
		return nil, err
	}
	if cfg.decoder == nil {
		cfg.decoder = defaultDecoder
	}
	if cfg.sched == nil {
		cfg.sched = SystemScheduler{}
	}

	var pages pageBuilder
	var err error
	if cfg.assetPath != "" {
		pages, err = newPages(cfg.assetPath)
	} else {
		pages, err = defaultPages()
	}
	if err != nil {
		return nil, fmt.Errorf("loading page assets: %w", err)
	}

	log := newDiagLog(cfg.log)
	errLog := log
	if cfg.errLog != nil {
		errLog = newDiagLog(cfg.errLog)
	}

	return &Previewer{
		host:       host,
		decoder:    cfg.decoder,
		notifier:   cfg.notifier,
		sched:      cfg.sched,
		log:        log,
		errLog:     errLog,
		pages:      pages,
		opts:       cfg.delivery,
		strategies: make(map[Mode]Strategy),
	}, nil
}

// Mode returns the current delivery mode.
func (p *Previewer) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.Mode
}

// SetMode switches the delivery mode for subsequent previews. Handles
// created under the previous mode keep their own revocation schedule.
func (p *Previewer) SetMode(m Mode) error {
	if !m.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Mode = m
	return nil
}

// Preview decodes input and presents it.
func (p *Previewer) Preview(ctx context.Context, input string) error {
	return p.run(ctx, Request{Load: DecodeLoader(p.decoder, input)})
}

// PreviewSample presents a catalog entry, labelling the loading page with
// its title and description.
func (p *Previewer) PreviewSample(ctx context.Context, s Sample) error {
	title := s.Title
	if title == "" {
		title = s.Name
	}
	return p.run(ctx, Request{
		Load:        DecodeLoader(p.decoder, s.Data),
		Title:       title,
		Description: s.Description,
	})
}

// Outstanding returns the number of handles not yet revoked.
func (p *Previewer) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, s := range p.strategies {
		n += s.(leaseCounter).outstanding()
	}
	return n
}

// Close revokes every outstanding handle. Later previews fail with ErrClosed.
func (p *Previewer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	strategies := make([]Strategy, 0, len(p.strategies))
	for _, s := range p.strategies {
		strategies = append(strategies, s)
	}
	p.mu.Unlock()

	var errs []error
	for _, s := range strategies {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// run is the single entry point for user actions.
func (p *Previewer) run(ctx context.Context, req Request) error {
	if !p.busy.CompareAndSwap(false, true) {
		// The trigger is disabled while a delivery runs; nothing to tell the user.
		p.log.Printf("ignored: %v", ErrBusy)
		return ErrBusy
	}
	defer p.busy.Store(false)

	s, err := p.strategy()
	if err != nil {
		return p.report(ctx, err)
	}

	req.Load = p.inspect(req.Load)
	if err := s.Deliver(ctx, req); err != nil {
		return p.report(ctx, err)
	}
	return nil
}

// strategy returns the strategy for the current mode, creating it on first use.
func (p *Previewer) strategy() (Strategy, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if s, ok := p.strategies[p.opts.Mode]; ok {
		return s, nil
	}
	s := newStrategy(newDelivery(p.host, p.opts, p.sched, p.pages, p.log))
	p.strategies[p.opts.Mode] = s
	return s, nil
}

// inspect logs documents that decode cleanly but do not look like a PDF.
func (p *Previewer) inspect(load Loader) Loader {
	return func(ctx context.Context) (*Document, error) {
		doc, err := load(ctx)
		if err == nil && !doc.HasPDFHeader() {
			p.log.Printf("warning: decoded %d bytes do not start with %%PDF-", doc.Size())
		}
		return doc, err
	}
}

// report logs err and shows it to the user. err is returned unchanged.
func (p *Previewer) report(ctx context.Context, err error) error {
	p.errLog.Printf("preview failed: %v", err)
	if p.notifier == nil {
		return err
	}
	if nerr := p.notifier.Notify(ctx, UserMessage(err)); nerr != nil {
		p.log.Printf("notify: %v", nerr)
	}
	return err
}
