package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-b64pdf"
)

var helloBytes = []byte("%PDF-1.4\n")

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutput(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

// ---------------------------------------------------------------------------
// TestRunDecode - files, stdin and stdout
// ---------------------------------------------------------------------------

func TestRunDecode_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeInput(t, dir, "invoice.b64", "data:application/pdf;base64,"+helloPDF+"\n")

	te := newTestEnv(t)
	if err := runDecode(context.Background(), []string{in}, te.Environment); err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}

	got := readOutput(t, filepath.Join(dir, "invoice.pdf"))
	if diff := cmp.Diff(helloBytes, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(te.stderr.String(), "Wrote") {
		t.Errorf("stderr = %q, want a Wrote line", te.stderr.String())
	}
	if te.launches != 0 {
		t.Error("decode must not start a browser")
	}
}

func TestRunDecode_ExplicitOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeInput(t, dir, "in.txt", helloPDF)
	out := filepath.Join(dir, "custom.pdf")

	te := newTestEnv(t)
	if err := runDecode(context.Background(), []string{in, "-o", out}, te.Environment); err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}
	if diff := cmp.Diff(helloBytes, readOutput(t, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDecode_OutputDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o750); err != nil {
		t.Fatal(err)
	}
	a := writeInput(t, dir, "a.b64", helloPDF)
	b := writeInput(t, dir, "b.b64", "data:application/pdf;base64,"+helloPDF)

	te := newTestEnv(t)
	if err := runDecode(context.Background(), []string{a, b, "-o", outDir, "-q"}, te.Environment); err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}

	for _, name := range []string{"a.pdf", "b.pdf"} {
		if diff := cmp.Diff(helloBytes, readOutput(t, filepath.Join(outDir, name))); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
	if te.stderr.Len() != 0 {
		t.Errorf("--quiet stderr = %q", te.stderr.String())
	}
}

func TestRunDecode_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o750); err != nil {
		t.Fatal(err)
	}
	good := writeInput(t, dir, "good.b64", helloPDF)
	bad := writeInput(t, dir, "bad.b64", "!!!!")
	missing := filepath.Join(dir, "missing.b64")

	te := newTestEnv(t)
	err := runDecode(context.Background(), []string{bad, good, missing, "-o", outDir, "-q"}, te.Environment)
	if !errors.Is(err, b64pdf.ErrInvalidEncoding) {
		t.Errorf("error = %v, want ErrInvalidEncoding for bad.b64", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want the missing file reported too", err)
	}
	if diff := cmp.Diff(helloBytes, readOutput(t, filepath.Join(outDir, "good.pdf"))); diff != "" {
		t.Errorf("good input should still be written (-want +got):\n%s", diff)
	}
	if code := exitCodeFor(err); code != ExitDecode {
		t.Errorf("exitCodeFor() = %d, want %d", code, ExitDecode)
	}
}

func TestRunDecode_StdinToStdout(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.Stdin = strings.NewReader(helloPDF)
	if err := runDecode(context.Background(), []string{"-o", "-"}, te.Environment); err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}
	if diff := cmp.Diff(helloBytes, te.stdout.Bytes()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDecode_Overwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeInput(t, dir, "doc.b64", helloPDF)
	out := writeInput(t, dir, "doc.pdf", "old")

	te := newTestEnv(t)
	err := runDecode(context.Background(), []string{in}, te.Environment)
	if !errors.Is(err, ErrWriteOutput) {
		t.Fatalf("error = %v, want ErrWriteOutput", err)
	}
	if string(readOutput(t, out)) != "old" {
		t.Error("existing file was overwritten without --force")
	}

	if err := runDecode(context.Background(), []string{in, "--force"}, te.Environment); err != nil {
		t.Fatalf("runDecode(--force) error = %v", err)
	}
	if diff := cmp.Diff(helloBytes, readOutput(t, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDecode_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := writeInput(t, dir, "bad.b64", "not base64!")
	wrapped := writeInput(t, dir, "wrapped.b64", "JVBE\nRi0xLjQK")

	tests := []struct {
		name     string
		args     []string
		terminal bool
		wantErr  error
		wantCode int
	}{
		{"invalid base64", []string{bad}, false, b64pdf.ErrInvalidEncoding, ExitDecode},
		{"line breaks need --wrapped", []string{wrapped}, false, b64pdf.ErrLineBreaks, ExitDecode},
		{"no input on a terminal", nil, true, ErrNoInput, ExitIO},
		{"missing file", []string{filepath.Join(dir, "missing.b64")}, false, os.ErrNotExist, ExitIO},
		{"several inputs to stdout", []string{bad, wrapped, "-o", "-"}, false, ErrUsage, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if tt.terminal {
				te.terminal()
			}
			err := runDecode(context.Background(), tt.args, te.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestRunDecode_Wrapped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeInput(t, dir, "wrapped.b64", "JVBE\r\nRi0xLjQK\r\n")

	te := newTestEnv(t)
	if err := runDecode(context.Background(), []string{"--wrapped", in}, te.Environment); err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}
	if diff := cmp.Diff(helloBytes, readOutput(t, filepath.Join(dir, "wrapped.pdf"))); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDecode_WarnsOnNonPDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeInput(t, dir, "hello.b64", "aGVsbG8=")

	te := newTestEnv(t)
	if err := runDecode(context.Background(), []string{"-q", in}, te.Environment); err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}
	if !strings.Contains(te.stderr.String(), "does not start with %PDF-") {
		t.Errorf("stderr = %q, want a warning even with --quiet", te.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestPlanDecode - output path resolution
// ---------------------------------------------------------------------------

func TestPlanDecode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		inputs  []string
		output  string
		want    []decodeJob
		wantErr bool
	}{
		{
			name:   "default name",
			inputs: []string{"docs/report.b64"},
			want:   []decodeJob{{"docs/report.b64", "docs/report.pdf"}},
		},
		{
			name:   "stdin default",
			inputs: []string{"-"},
			want:   []decodeJob{{"-", "document.pdf"}},
		},
		{
			name:   "single into existing directory",
			inputs: []string{"a.txt"},
			output: dir,
			want:   []decodeJob{{"a.txt", filepath.Join(dir, "a.pdf")}},
		},
		{
			name:   "several into directory",
			inputs: []string{"x/a.b64", "y/b.b64"},
			output: "out",
			want: []decodeJob{
				{"x/a.b64", filepath.Join("out", "a.pdf")},
				{"y/b.b64", filepath.Join("out", "b.pdf")},
			},
		},
		{
			name:    "stdin twice",
			inputs:  []string{"-", "-"},
			wantErr: true,
		},
		{
			name:    "colliding outputs",
			inputs:  []string{"x/a.b64", "y/a.txt"},
			output:  "out",
			wantErr: true,
		},
		{
			name:    "several to stdout",
			inputs:  []string{"a.b64", "b.b64"},
			output:  "-",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := planDecode(tt.inputs, tt.output)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Fatalf("error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("planDecode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(decodeJob{})); diff != "" {
				t.Errorf("planDecode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
