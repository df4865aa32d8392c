package handles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
)

// PathPrefix is the URL path under which handles are served.
const PathPrefix = "/h/"

// ErrServerClosed is returned by URL after Close.
var ErrServerClosed = errors.New("handle server is closed")

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 2 * time.Second
)

// Server serves a Store on a loopback address.
type Server struct {
	store    *Store
	listener net.Listener
	srv      *http.Server
	base     string
	log      io.Writer
	logMu    sync.Mutex

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAccessLog writes one line per request to w.
func WithAccessLog(w io.Writer) ServerOption {
	return func(s *Server) {
		s.log = w
	}
}

// Listen starts serving store on 127.0.0.1 with a kernel-chosen port.
func Listen(store *Store, opts ...ServerOption) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listening on loopback: %w", err)
	}
	return Serve(store, ln, opts...), nil
}

// Serve starts serving store on ln. The Server owns ln afterwards.
func Serve(store *Store, ln net.Listener, opts ...ServerOption) *Server {
	s := &Server{
		store:    store,
		listener: ln,
		base:     "http://" + ln.Addr().String(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathPrefix+"{id}", s.serveHandle)

	s.srv = &http.Server{
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		defer close(s.done)
		_ = s.srv.Serve(ln)
	}()

	return s
}

// URL returns the address the browser resolves id through.
func (s *Server) URL(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrServerClosed
	}
	return s.base + PathPrefix + id, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops the server. Calling Close twice is a no-op.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	<-s.done
	return err
}

func (s *Server) serveHandle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		http.NotFound(w, r)
		return
	}

	entry, state := s.store.Get(id)
	switch state {
	case StateRevoked:
		http.Error(w, "document handle was revoked", http.StatusGone)
		return
	case StateUnknown:
		http.NotFound(w, r)
		return
	}

	h := w.Header()
	h.Set("Content-Type", entry.MIMEType)
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Disposition", `inline; filename="document.pdf"`)

	// ServeContent answers the Range requests PDF viewers issue.
	http.ServeContent(w, r, "", entry.Created, bytes.NewReader(entry.Data))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	if s.log == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logMu.Lock()
		defer s.logMu.Unlock()
		fmt.Fprintf(s.log, "b64pdf: %s %s -> %d (%d bytes, %v)\n",
			r.Method, r.URL.Path, m.Code, m.Written, m.Duration.Round(time.Millisecond))
	})
}
