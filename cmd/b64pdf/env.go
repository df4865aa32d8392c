package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/config"
)

// defaultWidth is used when the terminal width is unknown.
const defaultWidth = 80

// browserHost is what the commands need from RodHost and CDPHost.
type browserHost interface {
	b64pdf.Host
	b64pdf.Notifier
	Done() <-chan struct{}
	ActiveHandles() int
	Close() error
}

// Compile-time interface checks.
var (
	_ browserHost = (*b64pdf.RodHost)(nil)
	_ browserHost = (*b64pdf.CDPHost)(nil)
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsTerminal reports whether Stdin is interactive.
	StdinIsTerminal func() bool

	// TermWidth returns the output width in columns.
	TermWidth func() int

	// LaunchHost starts the browser for a backend name.
	LaunchHost func(ctx context.Context, backend string, opts b64pdf.BrowserOptions) (browserHost, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		StdinIsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		TermWidth:       terminalWidth,
		LaunchHost:      launchHost,
	}
}

// launchHost starts the backend selected in the configuration.
func launchHost(ctx context.Context, backend string, opts b64pdf.BrowserOptions) (browserHost, error) {
	if backend == config.BackendChromedp {
		return b64pdf.NewCDPHost(ctx, opts)
	}
	return b64pdf.NewRodHost(ctx, opts)
}

// terminalWidth returns the stdout width, then $COLUMNS, then defaultWidth.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}
