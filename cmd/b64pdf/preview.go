package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/config"
	"github.com/alnah/go-b64pdf/internal/fileutil"
	"github.com/alnah/go-b64pdf/internal/hints"
	"github.com/alnah/go-b64pdf/internal/samples"
)

// runPreview decodes one input and shows it in the browser.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	f := &previewFlags{}
	fs := buildPreviewFlagSet("preview", f)
	fs.Usage = func() { printPreviewUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: preview takes at most one input, got %d", ErrUsage, fs.NArg())
	}

	warnUnknownEnvVars(env.Stderr)
	cfg, err := resolveConfig(fs, &f.session)
	if err != nil {
		return err
	}

	input, err := readPreviewInput(f.data, fs.Args(), env, cfg)
	if err != nil {
		return err
	}

	return withSession(ctx, cfg, &f.session, env, func(ctx context.Context, s *session) error {
		return s.previewer.Preview(ctx, input)
	})
}

// runSample previews a catalog entry by name.
func runSample(ctx context.Context, args []string, env *Environment) error {
	f := &previewFlags{}
	fs := buildPreviewFlagSet("sample", f)
	fs.Usage = func() { printSampleUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: sample takes exactly one name", ErrUsage)
	}

	warnUnknownEnvVars(env.Stderr)
	cfg, err := resolveConfig(fs, &f.session)
	if err != nil {
		return err
	}

	// Resolve the name before launching anything.
	catalog, err := samples.Open(cfg.Samples.Catalog)
	if err != nil {
		return err
	}
	sample, err := findSample(catalog, fs.Arg(0))
	if err != nil {
		return err
	}

	return withSession(ctx, cfg, &f.session, env, func(ctx context.Context, s *session) error {
		return s.previewer.PreviewSample(ctx, sample)
	})
}

// findSample looks up name and lists the alternatives when it is missing.
func findSample(catalog *samples.Catalog, name string) (b64pdf.Sample, error) {
	sample, err := catalog.Find(name)
	if err != nil {
		return sample, fmt.Errorf("%w%s", err, hints.ForSampleNotFound(catalog.Names()))
	}
	return sample, nil
}

// withSession opens a session, runs show, and on success keeps the browser
// open until the user is done with it.
func withSession(ctx context.Context, cfg *config.Config, f *sessionFlags, env *Environment, show func(context.Context, *session) error) (err error) {
	s, err := openSession(ctx, cfg, f, env)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	if err := show(ctx, s); err != nil {
		return err
	}

	s.log.Infof("Document shown in the browser (%s). Close the browser or press Ctrl+C to exit.", s.previewer.Mode())
	s.wait(ctx)
	return nil
}

// readPreviewInput returns --data, the named file, stdin ("-" or piped),
// in that order.
func readPreviewInput(data string, args []string, env *Environment, cfg *config.Config) (string, error) {
	if data != "" {
		if len(args) > 0 {
			return "", fmt.Errorf("%w: --data and an input file are mutually exclusive", ErrUsage)
		}
		return data, nil
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if !env.StdinIsTerminal() {
		path = fileutil.StdinPath
	}
	if path == "" {
		return "", ErrNoInput
	}

	raw, err := readInput(path, env.Stdin, cfg)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// readInput reads path, or stdin for "-", capped at the configured size.
func readInput(path string, stdin io.Reader, cfg *config.Config) ([]byte, error) {
	raw, err := fileutil.ReadInput(path, stdin, int64(cfg.EffectiveMaxInputSize()))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", displayPath(path), err)
	}
	return raw, nil
}

func displayPath(path string) string {
	if path == fileutil.StdinPath {
		return "stdin"
	}
	return path
}
