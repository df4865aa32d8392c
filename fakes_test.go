package b64pdf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// fakeHost records every environment call for assertions.
// ---------------------------------------------------------------------------

type fakeHost struct {
	mu        sync.Mutex
	calls     []string
	surfaces  []*fakeSurface
	app       *fakeSurface
	openErr   error
	createErr error
	next      int
	active    map[string]bool
	revokes   map[string]int
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		active:  make(map[string]bool),
		revokes: make(map[string]int),
	}
	h.app = &fakeSurface{host: h, name: "app"}
	return h
}

func (h *fakeHost) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}

func (h *fakeHost) OpenSurface(context.Context) (Surface, error) {
	h.record("open")
	if h.openErr != nil {
		return nil, h.openErr
	}
	h.mu.Lock()
	s := &fakeSurface{host: h, name: fmt.Sprintf("tab%d", len(h.surfaces)+1)}
	h.surfaces = append(h.surfaces, s)
	h.mu.Unlock()
	return s, nil
}

func (h *fakeHost) CurrentSurface(context.Context) (Surface, error) {
	h.record("current")
	return h.app, nil
}

func (h *fakeHost) CreateHandle(doc *Document) (Handle, error) {
	if h.createErr != nil {
		h.record("create-failed")
		return Handle{}, h.createErr
	}
	h.mu.Lock()
	h.next++
	id := fmt.Sprintf("h%d", h.next)
	h.active[id] = true
	h.mu.Unlock()
	h.record("create:" + id)
	return Handle{ID: id, URL: "http://127.0.0.1:1/h/" + id}, nil
}

func (h *fakeHost) RevokeHandle(hd Handle) error {
	h.record("revoke:" + hd.ID)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.revokes[hd.ID]++
	delete(h.active, hd.ID)
	return nil
}

func (h *fakeHost) callLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *fakeHost) activeIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.active))
	for id := range h.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h *fakeHost) revokeCount(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revokes[id]
}

func (h *fakeHost) handlesCreated() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.next
}

func (h *fakeHost) tab(i int) *fakeSurface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surfaces[i]
}

// assertRevokedOnce fails unless every handle created was revoked exactly once.
func (h *fakeHost) assertRevokedOnce(t *testing.T) {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := 1; i <= h.next; i++ {
		id := fmt.Sprintf("h%d", i)
		if n := h.revokes[id]; n != 1 {
			t.Errorf("handle %s revoked %d times, want 1", id, n)
		}
	}
}

// ---------------------------------------------------------------------------
// fakeSurface
// ---------------------------------------------------------------------------

type fakeSurface struct {
	host      *fakeHost
	name      string
	navErr    error
	renderErr error

	mu          sync.Mutex
	navigations []string
	renders     []string
	closeCalls  int
	state       surfaceState
}

func (s *fakeSurface) Navigate(_ context.Context, url string) error {
	s.host.record(s.name + ":navigate")
	if s.navErr != nil {
		return s.navErr
	}
	s.state.setTarget(url)
	s.mu.Lock()
	s.navigations = append(s.navigations, url)
	s.mu.Unlock()
	return nil
}

func (s *fakeSurface) Render(_ context.Context, html string) error {
	s.host.record(s.name + ":render")
	if s.renderErr != nil {
		return s.renderErr
	}
	s.mu.Lock()
	s.renders = append(s.renders, html)
	s.mu.Unlock()
	return nil
}

func (s *fakeSurface) Close() error {
	s.host.record(s.name + ":close")
	s.mu.Lock()
	s.closeCalls++
	s.mu.Unlock()
	s.state.markClosed()
	return nil
}

func (s *fakeSurface) Closed() bool {
	return s.state.isClosed()
}

func (s *fakeSurface) OnLeave(fn func()) {
	s.state.onLeave(fn)
}

// userNavigates simulates the user following a link or going back.
func (s *fakeSurface) userNavigates(url string) {
	s.state.navigated(url)
}

func (s *fakeSurface) lastRender() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.renders) == 0 {
		return ""
	}
	return s.renders[len(s.renders)-1]
}

// ---------------------------------------------------------------------------
// manualScheduler is a fake clock. Timers fire only on Advance.
// ---------------------------------------------------------------------------

type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	sleeps []time.Duration

	sleepErr error
	onSleep  func(ctx context.Context)
}

type manualTimer struct {
	sched   *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{sched: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	hook := s.onSleep
	s.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if s.sleepErr != nil {
		return s.sleepErr
	}
	return ctx.Err()
}

// Advance moves the clock forward and runs due timers in deadline order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// pending returns the number of timers that have neither fired nor been stopped.
func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// ---------------------------------------------------------------------------
// Small helpers
// ---------------------------------------------------------------------------

// helloPDF is "%PDF-1.4\n" encoded.
const helloPDF = "JVBERi0xLjQK"

// countingLoader wraps a Loader and counts calls.
type countingLoader struct {
	mu    sync.Mutex
	calls int
	load  Loader
}

func (c *countingLoader) Load(ctx context.Context) (*Document, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.load(ctx)
}

func (c *countingLoader) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// stubPages renders fixed strings, optionally failing.
type stubPages struct {
	placeholderErr error
	viewerErr      error
}

func (p stubPages) Placeholder(info PageInfo) (string, error) {
	if p.placeholderErr != nil {
		return "", p.placeholderErr
	}
	return "placeholder:" + info.Title, nil
}

func (p stubPages) Viewer(url string, _ PageInfo) (string, error) {
	if p.viewerErr != nil {
		return "", p.viewerErr
	}
	return "viewer:" + url, nil
}

// recordingNotifier captures notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return n.err
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

var errBoom = errors.New("boom")
