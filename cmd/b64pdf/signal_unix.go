//go:build !windows

package main

import (
	"os"
	"syscall"
)

// sessionSignals end a running command. SIGHUP arrives when the terminal
// closes; the browser and its handle server must not outlive it.
var sessionSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
