//go:build windows

package main

import "os"

// sessionSignals end a running command. Windows only delivers Ctrl+C.
var sessionSignals = []os.Signal{os.Interrupt}
