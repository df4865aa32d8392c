package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/samples"
)

// errQuit ends the shell loop without an error.
var errQuit = errors.New("quit")

// previewService is the part of *b64pdf.Previewer the shell drives.
type previewService interface {
	Preview(ctx context.Context, input string) error
	PreviewSample(ctx context.Context, s b64pdf.Sample) error
	Mode() b64pdf.Mode
	SetMode(m b64pdf.Mode) error
	Outstanding() int
}

var _ previewService = (*b64pdf.Previewer)(nil)

// lineReader yields one line of input at a time.
type lineReader interface {
	Readline() (string, error)
}

// shell interprets one line at a time against a previewer.
type shell struct {
	previewer previewService
	catalog   *samples.Catalog
	in        lineReader // continuation lines for /paste
	out       io.Writer
}

// runShell keeps the browser open and previews each line entered.
func runShell(ctx context.Context, args []string, env *Environment) (err error) {
	f := &sessionFlags{}
	fs := buildShellFlagSet(f)
	fs.Usage = func() { printShellUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: shell takes no arguments", ErrUsage)
	}

	warnUnknownEnvVars(env.Stderr)
	cfg, err := resolveConfig(fs, f)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, f, env)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "b64pdf> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newShellCompleter(s.catalog),
		Stdin:           io.NopCloser(env.Stdin),
		Stdout:          env.Stdout,
		Stderr:          env.Stderr,
	})
	if err != nil {
		return fmt.Errorf("starting shell: %w", err)
	}
	defer rl.Close()

	// Unblock Readline when the user closes the browser or interrupts.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-s.host.Done():
		case <-ctx.Done():
		case <-stop:
			return
		}
		_ = rl.Close()
	}()

	sh := &shell{previewer: s.previewer, catalog: s.catalog, in: rl, out: env.Stdout}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Paste Base64 or a data URI to preview it (mode %s). Type /help for commands.\n", s.previewer.Mode())
	}
	return sh.run(ctx, rl, s.host.Done())
}

// run reads lines until EOF, /quit, or done closes.
func (s *shell) run(ctx context.Context, in lineReader, done <-chan struct{}) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || isDone(ctx, done) {
				return nil
			}
			return err
		}

		if err := s.handle(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func isDone(ctx context.Context, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// handle runs one line. Preview failures are printed, not returned: the
// shell keeps going. A closed previewer or host ends the loop.
func (s *shell) handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return s.check(s.previewer.Preview(ctx, line))
	}

	parts := strings.Fields(line)
	switch parts[0] {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/h":
		printShellCommands(s.out)

	case "/mode":
		if len(parts) == 1 {
			fmt.Fprintf(s.out, "mode: %s\n", s.previewer.Mode())
			return nil
		}
		m, err := b64pdf.ParseMode(parts[1])
		if err != nil {
			fmt.Fprintf(s.out, "error: %v (choose %s)\n", err, strings.Join(modeNames(), ", "))
			return nil
		}
		if err := s.previewer.SetMode(m); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return nil
		}
		fmt.Fprintf(s.out, "mode: %s\n", m)

	case "/sample":
		if len(parts) != 2 {
			fmt.Fprintln(s.out, "usage: /sample <name>")
			return nil
		}
		sample, err := findSample(s.catalog, parts[1])
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return nil
		}
		return s.check(s.previewer.PreviewSample(ctx, sample))

	case "/samples":
		for _, name := range s.catalog.Names() {
			fmt.Fprintln(s.out, name)
		}

	case "/status":
		fmt.Fprintf(s.out, "mode: %s, outstanding documents: %d\n", s.previewer.Mode(), s.previewer.Outstanding())

	case "/paste":
		payload, err := s.readPaste()
		if err != nil {
			return err
		}
		if payload == "" {
			return nil
		}
		return s.check(s.previewer.Preview(ctx, payload))

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type /help)\n", parts[0])
	}
	return nil
}

// readPaste joins lines until an empty one. Wrapped Base64 arrives as
// several lines; joining them without a separator restores the payload.
func (s *shell) readPaste() (string, error) {
	fmt.Fprintln(s.out, "Paste the payload, then an empty line.")
	var b strings.Builder
	for {
		line, err := s.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", nil
		}
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return b.String(), nil
		}
		b.WriteString(line)
	}
}

// check prints a preview failure and decides whether the shell survives it.
func (s *shell) check(err error) error {
	switch {
	case err == nil, errors.Is(err, b64pdf.ErrBusy):
		return nil
	case errors.Is(err, b64pdf.ErrClosed), errors.Is(err, b64pdf.ErrHostClosed):
		return err
	default:
		fmt.Fprintf(s.out, "error: %s\n", b64pdf.UserMessage(err))
		return nil
	}
}

// newShellCompleter completes slash commands, mode names and sample names.
func newShellCompleter(catalog *samples.Catalog) *readline.PrefixCompleter {
	modes := make([]readline.PrefixCompleterInterface, 0, len(b64pdf.Modes()))
	for _, name := range modeNames() {
		modes = append(modes, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("/mode", modes...),
		readline.PcItem("/sample", readline.PcItemDynamic(func(string) []string {
			return catalog.Names()
		})),
		readline.PcItem("/samples"),
		readline.PcItem("/paste"),
		readline.PcItem("/status"),
		readline.PcItem("/help"),
		readline.PcItem("/quit"),
	)
}

// historyPath returns the shell history file, or "" to keep none.
func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "b64pdf_history")
}
