package b64pdf

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-b64pdf/internal/process"
)

// RodHost is a Host backed by a visible Chrome window driven with go-rod.
// Rod downloads Chromium on first run if no browser is found.
type RodHost struct {
	*handleHost

	launcher *launcher.Launcher
	browser  *rod.Browser
	app      *rodSurface

	mu       sync.Mutex
	surfaces map[proto.TargetTargetID]*rodSurface
	closed   bool

	done     chan struct{}
	doneOnce sync.Once
}

// Compile-time interface checks.
var (
	_ Host     = (*RodHost)(nil)
	_ Notifier = (*RodHost)(nil)
	_ Surface  = (*rodSurface)(nil)
)

// NewRodHost launches the browser and opens the application tab.
func NewRodHost(ctx context.Context, opts BrowserOptions) (*RodHost, error) {
	opts = opts.withEnv()

	l := launcher.New().Context(ctx).Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	handles, err := newHandleHost(opts.AccessLog)
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, err
	}

	h := &RodHost{
		handleHost: handles,
		launcher:   l,
		browser:    browser,
		surfaces:   make(map[proto.TargetTargetID]*rodSurface),
		done:       make(chan struct{}),
	}

	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(browser); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	app, err := h.newSurface()
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: opening application tab: %v", ErrBrowserConnect, err)
	}
	h.app = app
	go h.watchTargets()

	return h, nil
}

// OpenSurface implements Host.
func (h *RodHost) OpenSurface(ctx context.Context) (Surface, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := h.newSurface()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	return s, nil
}

// CurrentSurface implements Host. It is the tab opened at launch.
func (h *RodHost) CurrentSurface(context.Context) (Surface, error) {
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
func (h *RodHost) Notify(ctx context.Context, message string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	_, err := h.app.page.Context(ctx).Eval(`(m) => alert(m)`, message)
	if err != nil {
		return fmt.Errorf("showing alert: %w", err)
	}
	return nil
}

// Done is closed when the browser exits or the application tab is closed.
func (h *RodHost) Done() <-chan struct{} {
	return h.done
}

// Close revokes all handles, closes the browser, and kills its process tree.
// Calling Close twice is a no-op.
func (h *RodHost) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	errs := []error{h.closeHandles()}
	if err := h.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := process.KillTree(h.launcher.PID()); err != nil {
		errs = append(errs, err)
	}
	h.launcher.Kill()
	h.finish()
	return errors.Join(errs...)
}

func (h *RodHost) checkOpen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHostClosed
	}
	return nil
}

func (h *RodHost) finish() {
	h.doneOnce.Do(func() { close(h.done) })
}

// newSurface creates a blank tab and starts watching its navigations.
func (h *RodHost) newSurface() (*rodSurface, error) {
	page, err := h.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &rodSurface{page: page.Context(ctx), cancel: cancel}

	h.mu.Lock()
	h.surfaces[page.TargetID] = s
	h.mu.Unlock()

	go s.page.EachEvent(func(e *proto.PageFrameNavigated) {
		if e.Frame.ParentID == "" {
			s.state.navigated(e.Frame.URL)
		}
	})()

	return s, nil
}

// watchTargets forwards tab destruction to surfaces until the browser goes away.
func (h *RodHost) watchTargets() {
	defer h.finish()

	h.browser.EachEvent(func(e *proto.TargetTargetDestroyed) bool {
		h.mu.Lock()
		s, ok := h.surfaces[e.TargetID]
		delete(h.surfaces, e.TargetID)
		h.mu.Unlock()

		if !ok {
			return false
		}
		s.destroyed()
		return s == h.app
	})()
}

// rodSurface is one browser tab.
type rodSurface struct {
	page   *rod.Page
	cancel context.CancelFunc
	state  surfaceState
}

func (s *rodSurface) Navigate(ctx context.Context, url string) error {
	if s.state.isClosed() {
		return errSurfaceClosed
	}
	s.state.setTarget(url)
	if err := s.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigating: %w", err)
	}
	return nil
}

func (s *rodSurface) Render(ctx context.Context, html string) error {
	if s.state.isClosed() {
		return errSurfaceClosed
	}
	if err := s.page.Context(ctx).SetDocumentContent(html); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func (s *rodSurface) Close() error {
	if !s.state.markClosed() {
		return nil
	}
	err := s.page.Close()
	s.cancel()
	return err
}

func (s *rodSurface) Closed() bool {
	return s.state.isClosed()
}

func (s *rodSurface) OnLeave(fn func()) {
	s.state.onLeave(fn)
}

// destroyed handles a tab the user closed.
func (s *rodSurface) destroyed() {
	s.state.markClosed()
	s.cancel()
}
