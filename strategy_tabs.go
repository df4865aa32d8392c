package b64pdf

import (
	"context"
	"errors"
)

// errSurfaceClosed reports a loading tab the user closed before it was filled.
var errSurfaceClosed = errors.New("tab was closed before the document was ready")

// newTabStrategy opens a tab pointed straight at the handle.
type newTabStrategy struct {
	*delivery
}

// Deliver decodes, opens a tab, then navigates it to a fresh handle.
// The tab is opened before the handle exists, so a refused tab leaves
// nothing to release.
func (s *newTabStrategy) Deliver(ctx context.Context, req Request) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	doc, err := s.load(ctx, req)
	if err != nil {
		return err
	}

	surface, err := s.host.OpenSurface(ctx)
	if err != nil {
		return surfaceError(err)
	}

	l, err := s.acquire(doc)
	if err != nil {
		closeSurface(surface)
		return deliveryError(err)
	}

	if err := surface.Navigate(ctx, l.handle.URL); err != nil {
		l.release("navigation failed")
		closeSurface(surface)
		return deliveryError(err)
	}

	l.releaseAfter(s.sched, s.opts.cleanupDelay())
	return nil
}

// proxyTabStrategy opens a blank tab synchronously, shows a loading page,
// and swaps in an embedded viewer once the document is ready.
type proxyTabStrategy struct {
	*delivery
}

// Deliver must open the tab before any other work: browsers suppress
// popups opened after an asynchronous gap in the user gesture.
func (s *proxyTabStrategy) Deliver(ctx context.Context, req Request) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	surface, err := s.host.OpenSurface(ctx)
	if err != nil {
		return surfaceError(err)
	}

	fail := func(err error) error {
		closeSurface(surface)
		return deliveryError(err)
	}

	info := req.info()
	placeholder, err := s.pages.Placeholder(info)
	if err != nil {
		return fail(err)
	}
	if err := surface.Render(ctx, placeholder); err != nil {
		return fail(err)
	}

	if err := s.sched.Sleep(ctx, s.opts.PrepareDelay); err != nil {
		return fail(err)
	}

	doc, err := s.load(ctx, req)
	if err != nil {
		return fail(err)
	}
	if surface.Closed() {
		return fail(errSurfaceClosed)
	}

	l, err := s.acquire(doc)
	if err != nil {
		return fail(err)
	}

	viewer, err := s.pages.Viewer(l.handle.URL, info)
	if err != nil {
		l.release("viewer page failed")
		return fail(err)
	}
	if err := surface.Render(ctx, viewer); err != nil {
		l.release("viewer render failed")
		return fail(err)
	}

	l.releaseAfter(s.sched, s.opts.cleanupDelay())
	return nil
}

// sameTabStrategy navigates the application tab to the handle.
type sameTabStrategy struct {
	*delivery
}

// Deliver hands the handle lifetime to the tab: it is revoked when the tab
// leaves the document, after CleanupDelay when one is set, or on Close.
func (s *sameTabStrategy) Deliver(ctx context.Context, req Request) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	doc, err := s.load(ctx, req)
	if err != nil {
		return err
	}

	surface, err := s.host.CurrentSurface(ctx)
	if err != nil {
		return deliveryError(err)
	}

	l, err := s.acquire(doc)
	if err != nil {
		return deliveryError(err)
	}

	if err := surface.Navigate(ctx, l.handle.URL); err != nil {
		l.release("navigation failed")
		return deliveryError(err)
	}

	surface.OnLeave(func() { l.release("tab left the document") })
	if delay := s.opts.cleanupDelay(); delay > 0 {
		l.releaseAfter(s.sched, delay)
	}
	return nil
}
