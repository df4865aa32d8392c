package main

import (
	"os"
	"slices"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		terminal   bool
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: nil, wantCode: ExitUsage, wantStderr: "Usage: b64pdf"},
		{name: "unknown command", args: []string{"convert"}, wantCode: ExitUsage, wantStderr: "Unknown command: convert"},
		{name: "help", args: []string{"help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "--help", args: []string{"--help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "command help flag", args: []string{"preview", "--help"}, wantCode: ExitSuccess, wantStderr: "Usage: b64pdf preview"},
		{name: "version", args: []string{"version"}, wantCode: ExitSuccess, wantStdout: "go-b64pdf"},
		{name: "preview", args: []string{"preview", "-d", helloPDF}, wantCode: ExitSuccess},
		{name: "decode error", args: []string{"preview", "-d", "!!!!"}, wantCode: ExitDecode, wantStderr: "error: The input is not valid Base64."},
		{name: "decode error verbose", args: []string{"preview", "-v", "-d", "!!!!"}, wantCode: ExitDecode, wantStderr: "detail:"},
		{name: "no input", args: []string{"decode"}, terminal: true, wantCode: ExitIO, wantStderr: "no input"},
		{name: "bad flag", args: []string{"decode", "--frobnicate"}, wantCode: ExitUsage, wantStderr: "unknown flag"},
		{name: "unknown sample", args: []string{"sample", "nope"}, wantCode: ExitUsage, wantStderr: "available:"},
		{name: "unsupported shell", args: []string{"completion", "tcsh"}, wantCode: ExitUsage, wantStderr: "unsupported shell"},
		{name: "samples", args: []string{"samples", "-q"}, wantCode: ExitSuccess, wantStdout: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if tt.terminal {
				te.terminal()
			}

			args := append([]string{"b64pdf"}, tt.args...)
			if code := runMain(args, te.Environment); code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, te.stderr.String())
			}
			if !strings.Contains(te.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", te.stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", te.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"preview", "-v"}, true},
		{[]string{"preview", "--verbose", "x"}, true},
		{[]string{"preview", "--", "-v"}, false},
		{[]string{"preview", "-vq"}, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestSessionSignals(t *testing.T) {
	t.Parallel()

	if !slices.Contains(sessionSignals, os.Signal(os.Interrupt)) {
		t.Errorf("sessionSignals = %v, want os.Interrupt included", sessionSignals)
	}
}
