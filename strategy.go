package b64pdf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Loader produces the document to deliver. It runs inside Deliver, after any
// browsing context the strategy opens up front.
type Loader func(ctx context.Context) (*Document, error)

// StaticLoader returns a Loader for an already decoded document.
func StaticLoader(doc *Document) Loader {
	return func(context.Context) (*Document, error) {
		if doc.Size() == 0 {
			return nil, ErrEmptyDocument
		}
		return doc, nil
	}
}

// DecodeLoader returns a Loader that decodes input with dec.
func DecodeLoader(dec *Decoder, input string) Loader {
	if dec == nil {
		dec = defaultDecoder
	}
	return func(context.Context) (*Document, error) {
		return dec.Decode(input)
	}
}

// Request describes one delivery.
type Request struct {
	Load Loader

	// Title and Description label the loading page. Description is Markdown.
	Title       string
	Description string
}

func (r Request) info() PageInfo {
	return PageInfo{Title: r.Title, Description: r.Description}
}

// Strategy presents documents through one browser technique.
type Strategy interface {
	// Mode returns the technique this strategy implements.
	Mode() Mode

	// Deliver loads the document and presents it. A strategy that opens a
	// new browsing context does so before anything else.
	Deliver(ctx context.Context, req Request) error

	// Close revokes every handle still outstanding and stops pending timers.
	Close() error
}

// Compile-time interface checks.
var (
	_ Strategy = (*newTabStrategy)(nil)
	_ Strategy = (*proxyTabStrategy)(nil)
	_ Strategy = (*sameTabStrategy)(nil)
)

// NewStrategy returns the Strategy selected by opts.Mode.
// A nil sched uses SystemScheduler.
func NewStrategy(host Host, opts DeliveryOptions, sched Scheduler) (Strategy, error) {
	if host == nil {
		return nil, errors.New("b64pdf: nil host")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pages, err := defaultPages()
	if err != nil {
		return nil, err
	}
	return newStrategy(newDelivery(host, opts, sched, pages, nil)), nil
}

func newStrategy(d *delivery) Strategy {
	switch d.opts.Mode {
	case ModeNewTab:
		return &newTabStrategy{d}
	case ModeSameTab:
		return &sameTabStrategy{d}
	default:
		return &proxyTabStrategy{d}
	}
}

// PresentDocument delivers doc once with a throwaway strategy. Handles are
// released by their cleanup timers; same-tab handles by navigation.
func PresentDocument(ctx context.Context, host Host, doc *Document, opts DeliveryOptions) error {
	s, err := NewStrategy(host, opts, nil)
	if err != nil {
		return err
	}
	return s.Deliver(ctx, Request{Load: StaticLoader(doc)})
}

// delivery holds what every strategy shares.
type delivery struct {
	host   Host
	opts   DeliveryOptions
	sched  Scheduler
	pages  pageBuilder
	log    *diagLog
	leases *leaseSet
}

func newDelivery(host Host, opts DeliveryOptions, sched Scheduler, pages pageBuilder, log *diagLog) *delivery {
	if sched == nil {
		sched = SystemScheduler{}
	}
	return &delivery{
		host:   host,
		opts:   opts,
		sched:  sched,
		pages:  pages,
		log:    log,
		leases: newLeaseSet(),
	}
}

func (d *delivery) Mode() Mode {
	return d.opts.Mode
}

// leaseCounter is implemented by every built-in strategy.
type leaseCounter interface {
	outstanding() int
}

func (d *delivery) outstanding() int {
	return d.leases.count()
}

func (d *delivery) Close() error {
	d.leases.close("strategy closed")
	return nil
}

// checkOpen fails with ErrClosed once Close ran, before any tab is opened.
func (d *delivery) checkOpen() error {
	if d.leases.isClosed() {
		return ErrClosed
	}
	return nil
}

// acquire creates a handle for doc owned by a new lease.
func (d *delivery) acquire(doc *Document) (*lease, error) {
	if d.leases.isClosed() {
		return nil, ErrClosed
	}
	h, err := d.host.CreateHandle(doc)
	if err != nil {
		return nil, fmt.Errorf("creating handle: %w", err)
	}
	l := &lease{host: d.host, handle: h, set: d.leases, log: d.log}
	if !d.leases.add(l) {
		// Closed while the handle was being created.
		l.release("strategy closed")
		return nil, ErrClosed
	}
	d.log.Printf("handle %s created (%d bytes, %s)", h.ID, doc.Size(), d.opts.Mode)
	return l, nil
}

// load runs the request loader and rejects empty results.
func (d *delivery) load(ctx context.Context, req Request) (*Document, error) {
	if req.Load == nil {
		return nil, ErrEmptyInput
	}
	doc, err := req.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Size() == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// surfaceError makes sure a surface creation failure matches ErrSurfaceUnavailable.
func surfaceError(err error) error {
	if errors.Is(err, ErrSurfaceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
}

// deliveryError wraps err as a delivery failure, keeping it matchable.
func deliveryError(err error) error {
	return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
}

// closeSurface closes s; failures are irrelevant on the error path.
func closeSurface(s Surface) {
	_ = s.Close()
}

// lease owns one handle and revokes it exactly once.
type lease struct {
	once   sync.Once
	host   Host
	handle Handle
	set    *leaseSet
	log    *diagLog

	mu    sync.Mutex
	timer Timer
}

// releaseAfter schedules the release once delay elapses.
func (l *lease) releaseAfter(sched Scheduler, delay time.Duration) {
	t := sched.AfterFunc(delay, func() { l.release("cleanup delay elapsed") })
	l.mu.Lock()
	l.timer = t
	l.mu.Unlock()
}

// release revokes the handle on the first call and ignores the rest.
func (l *lease) release(reason string) {
	l.once.Do(func() {
		l.mu.Lock()
		if l.timer != nil {
			l.timer.Stop()
		}
		l.mu.Unlock()

		// Revoking an already revoked handle is best-effort by contract.
		if err := l.host.RevokeHandle(l.handle); err != nil {
			l.log.Printf("handle %s revoke: %v", l.handle.ID, err)
		}
		l.set.remove(l)
		l.log.Printf("handle %s revoked: %s", l.handle.ID, reason)
	})
}

// leaseSet tracks outstanding leases so they can be flushed on close.
type leaseSet struct {
	mu     sync.Mutex
	active map[*lease]struct{}
	closed bool
}

func newLeaseSet() *leaseSet {
	return &leaseSet{active: make(map[*lease]struct{})}
}

// add reports false once the set is closed; the caller must release l.
func (s *leaseSet) add(l *lease) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.active[l] = struct{}{}
	return true
}

func (s *leaseSet) remove(l *lease) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, l)
}

func (s *leaseSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *leaseSet) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// close marks the set closed and releases every active lease.
// The lock is released before releasing since release removes from the set.
func (s *leaseSet) close(reason string) {
	s.mu.Lock()
	s.closed = true
	pending := make([]*lease, 0, len(s.active))
	for l := range s.active {
		pending = append(pending, l)
	}
	s.mu.Unlock()

	for _, l := range pending {
		l.release(reason)
	}
}
