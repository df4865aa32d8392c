package b64pdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// CDPHost is a Host backed by a visible Chrome window driven with chromedp.
type CDPHost struct {
	*handleHost

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	app           *cdpSurface

	mu       sync.Mutex
	surfaces map[target.ID]*cdpSurface
	closed   bool

	done     chan struct{}
	doneOnce sync.Once
}

// Compile-time interface checks.
var (
	_ Host     = (*CDPHost)(nil)
	_ Notifier = (*CDPHost)(nil)
	_ Surface  = (*cdpSurface)(nil)
)

// NewCDPHost starts the browser. Its first tab becomes the application tab.
func NewCDPHost(ctx context.Context, opts BrowserOptions) (*CDPHost, error) {
	opts = opts.withEnv()

	bin, err := resolveBrowserBin(opts)
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(bin),
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("no-first-run", true),
	)
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx, discoverTargets()); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	handles, err := newHandleHost(opts.AccessLog)
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	h := &CDPHost{
		handleHost:    handles,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		surfaces:      make(map[target.ID]*cdpSurface),
		done:          make(chan struct{}),
	}
	h.app = h.track(browserCtx, func() {})

	chromedp.ListenBrowser(browserCtx, func(ev any) {
		if e, ok := ev.(*target.EventTargetDestroyed); ok {
			h.targetDestroyed(e.TargetID)
		}
	})
	go func() {
		select {
		case <-chromedp.FromContext(browserCtx).Browser.LostConnection:
		case <-browserCtx.Done():
		}
		h.finish()
	}()

	return h, nil
}

// discoverTargets enables target lifecycle events on the browser connection.
func discoverTargets() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		c := chromedp.FromContext(ctx)
		return target.SetDiscoverTargets(true).Do(cdp.WithExecutor(ctx, c.Browser))
	})
}

// OpenSurface implements Host.
func (h *CDPHost) OpenSurface(ctx context.Context) (Surface, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(h.browserCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	return h.track(tabCtx, cancel), nil
}

// CurrentSurface implements Host.
func (h *CDPHost) CurrentSurface(context.Context) (Surface, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if h.app.Closed() {
		return nil, fmt.Errorf("application tab was closed")
	}
	return h.app, nil
}

// Notify shows message in a JavaScript alert on the application tab and
// returns once the user dismisses it.
func (h *CDPHost) Notify(ctx context.Context, message string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	quoted, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return h.app.evaluate(ctx, "alert("+string(quoted)+")")
}

// Done is closed when the browser exits or the application tab is closed.
func (h *CDPHost) Done() <-chan struct{} {
	return h.done
}

// Close revokes all handles and stops the browser. Calling Close twice is a no-op.
func (h *CDPHost) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	err := h.closeHandles()
	if cerr := chromedp.Cancel(h.browserCtx); cerr != nil && !errors.Is(cerr, context.Canceled) {
		err = errors.Join(err, cerr)
	}
	h.browserCancel()
	h.allocCancel()
	h.finish()
	return err
}

func (h *CDPHost) checkOpen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHostClosed
	}
	return nil
}

func (h *CDPHost) finish() {
	h.doneOnce.Do(func() { close(h.done) })
}

// track registers the tab behind tabCtx and listens for its navigations.
func (h *CDPHost) track(tabCtx context.Context, cancel context.CancelFunc) *cdpSurface {
	s := &cdpSurface{ctx: tabCtx, cancel: cancel}

	id := chromedp.FromContext(tabCtx).Target.TargetID
	h.mu.Lock()
	h.surfaces[id] = s
	h.mu.Unlock()

	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*page.EventFrameNavigated); ok && e.Frame.ParentID == "" {
			s.state.navigated(e.Frame.URL)
		}
	})
	return s
}

func (h *CDPHost) targetDestroyed(id target.ID) {
	h.mu.Lock()
	s, ok := h.surfaces[id]
	delete(h.surfaces, id)
	h.mu.Unlock()

	if !ok {
		return
	}
	s.state.markClosed()
	if s == h.app {
		h.finish()
	}
}

// cdpSurface is one browser tab addressed through its chromedp context.
type cdpSurface struct {
	ctx    context.Context
	cancel context.CancelFunc
	state  surfaceState
}

// run executes actions on the tab. ctx is only checked up front: commands
// run on the tab's own context.
func (s *cdpSurface) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.state.isClosed() {
		return errSurfaceClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, actions...)
}

func (s *cdpSurface) evaluate(ctx context.Context, expr string) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, exc, err := runtime.Evaluate(expr).Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("evaluating script: %s", exc.Text)
		}
		return nil
	}))
}

// Navigate starts the navigation without waiting for the load event:
// the built-in PDF viewer may never fire one.
func (s *cdpSurface) Navigate(ctx context.Context, url string) error {
	quoted, err := json.Marshal(url)
	if err != nil {
		return err
	}
	s.state.setTarget(url)
	if err := s.evaluate(ctx, "location.assign("+string(quoted)+")"); err != nil {
		return fmt.Errorf("navigating: %w", err)
	}
	return nil
}

func (s *cdpSurface) Render(ctx context.Context, html string) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func (s *cdpSurface) Close() error {
	if !s.state.markClosed() {
		return nil
	}
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *cdpSurface) Closed() bool {
	return s.state.isClosed()
}

func (s *cdpSurface) OnLeave(fn func()) {
	s.state.onLeave(fn)
}
