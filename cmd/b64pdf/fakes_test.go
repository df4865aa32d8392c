package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-b64pdf"
)

// ---------------------------------------------------------------------------
// fakeHost stands in for RodHost and CDPHost.
// ---------------------------------------------------------------------------

type fakeHost struct {
	mu       sync.Mutex
	done     chan struct{}
	opened   int
	next     int
	active   map[string]bool
	revoked  []string
	notes    []string
	closes   int
	openErr  error
	backend  string
	launched b64pdf.BrowserOptions
}

// newFakeHost returns a host whose browser is already closed, so sessions
// return as soon as the document is shown.
func newFakeHost() *fakeHost {
	h := &fakeHost{done: make(chan struct{}), active: make(map[string]bool)}
	close(h.done)
	return h
}

var _ browserHost = (*fakeHost)(nil)

func (h *fakeHost) OpenSurface(context.Context) (b64pdf.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.openErr != nil {
		return nil, h.openErr
	}
	h.opened++
	return &fakeSurface{}, nil
}

func (h *fakeHost) CurrentSurface(context.Context) (b64pdf.Surface, error) {
	return &fakeSurface{}, nil
}

func (h *fakeHost) CreateHandle(*b64pdf.Document) (b64pdf.Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := fmt.Sprintf("h%d", h.next)
	h.active[id] = true
	return b64pdf.Handle{ID: id, URL: "http://127.0.0.1:1/h/" + id}, nil
}

func (h *fakeHost) RevokeHandle(hd b64pdf.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active[hd.ID] {
		delete(h.active, hd.ID)
		h.revoked = append(h.revoked, hd.ID)
	}
	return nil
}

func (h *fakeHost) Notify(_ context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes = append(h.notes, message)
	return nil
}

func (h *fakeHost) Done() <-chan struct{} { return h.done }

func (h *fakeHost) ActiveHandles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.active)
}

func (h *fakeHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes++
	return nil
}

func (h *fakeHost) snapshot() (opened, handles, revoked, closes int, notes []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opened, h.next, len(h.revoked), h.closes, append([]string(nil), h.notes...)
}

// ---------------------------------------------------------------------------
// fakeSurface accepts everything.
// ---------------------------------------------------------------------------

type fakeSurface struct {
	mu     sync.Mutex
	closed bool
}

func (s *fakeSurface) Navigate(context.Context, string) error { return nil }
func (s *fakeSurface) Render(context.Context, string) error   { return nil }
func (s *fakeSurface) OnLeave(func())                         {}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSurface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	host     *fakeHost
	launches int
}

// newTestEnv returns an environment with a non-terminal empty stdin and a
// fake browser.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		host:   newFakeHost(),
	}
	te.Environment = &Environment{
		Stdin:           strings.NewReader(""),
		Stdout:          te.stdout,
		Stderr:          te.stderr,
		StdinIsTerminal: func() bool { return false },
		TermWidth:       func() int { return 60 },
		LaunchHost: func(_ context.Context, backend string, opts b64pdf.BrowserOptions) (browserHost, error) {
			te.launches++
			te.host.backend = backend
			te.host.launched = opts
			return te.host, nil
		},
	}
	return te
}

// terminal makes stdin look interactive.
func (te *testEnv) terminal() *testEnv {
	te.StdinIsTerminal = func() bool { return true }
	return te
}

// helloPDF is "%PDF-1.4\n" in Base64.
const helloPDF = "JVBERi0xLjQK"
