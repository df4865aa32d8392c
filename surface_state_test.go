package b64pdf

import "testing"

func TestSurfaceState_Navigation(t *testing.T) {
	t.Parallel()

	var s surfaceState
	fired := map[string]int{}

	s.setTarget("http://h/1")
	s.onLeave(func() { fired["1"]++ })

	s.navigated("http://h/1")
	if fired["1"] != 0 {
		t.Fatal("arriving at the target is not a leave")
	}

	s.setTarget("http://h/2")
	s.onLeave(func() { fired["2"]++ })

	s.navigated("http://h/2")
	if fired["1"] != 1 || fired["2"] != 0 {
		t.Fatalf("fired = %v, want only the first callback", fired)
	}

	s.navigated("about:blank")
	s.navigated("http://h/1")
	if fired["1"] != 1 || fired["2"] != 1 {
		t.Errorf("fired = %v, want each callback once", fired)
	}
}

func TestSurfaceState_Close(t *testing.T) {
	t.Parallel()

	var s surfaceState
	n := 0
	s.onLeave(func() { n++ })

	if !s.markClosed() {
		t.Error("first markClosed() = false, want true")
	}
	if s.markClosed() {
		t.Error("second markClosed() = true, want false")
	}
	if !s.isClosed() {
		t.Error("isClosed() = false after markClosed")
	}
	if n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}

	// Registering on a closed surface runs at once.
	s.onLeave(func() { n++ })
	if n != 2 {
		t.Errorf("late callback did not run, n = %d", n)
	}
}

func TestSurfaceState_CallbackMayRegister(t *testing.T) {
	t.Parallel()

	var s surfaceState
	s.setTarget("a")
	inner := false
	s.onLeave(func() {
		s.onLeave(func() { inner = true })
	})

	s.navigated("b")
	if inner {
		t.Fatal("callback registered during a leave must wait for the next one")
	}
	s.navigated("c")
	if !inner {
		t.Error("nested callback never ran")
	}
}
