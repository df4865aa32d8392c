package b64pdf

import "sync"

// leaveFunc is a callback bound to the URL that was current when it was registered.
type leaveFunc struct {
	url string
	fn  func()
}

// surfaceState tracks the lifecycle of a browser tab for the host
// implementations: closure, the last navigation target, and leave callbacks.
type surfaceState struct {
	mu     sync.Mutex
	closed bool
	target string
	leaves []leaveFunc
}

func (s *surfaceState) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// markClosed flags the surface closed and reports whether it was open.
// Pending leave callbacks run.
func (s *surfaceState) markClosed() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	pending := s.leaves
	s.leaves = nil
	s.mu.Unlock()

	run(pending)
	return true
}

// setTarget records url as the document the surface is about to show.
func (s *surfaceState) setTarget(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = url
}

// navigated runs every callback registered for a URL other than url.
func (s *surfaceState) navigated(url string) {
	s.mu.Lock()
	var fire, keep []leaveFunc
	for _, l := range s.leaves {
		if l.url == url {
			keep = append(keep, l)
		} else {
			fire = append(fire, l)
		}
	}
	s.leaves = keep
	s.mu.Unlock()

	run(fire)
}

// onLeave binds fn to the current target. On a closed surface fn runs at once.
func (s *surfaceState) onLeave(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.leaves = append(s.leaves, leaveFunc{url: s.target, fn: fn})
	s.mu.Unlock()
}

func run(leaves []leaveFunc) {
	for _, l := range leaves {
		l.fn()
	}
}
