package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/config"
	"github.com/alnah/go-b64pdf/internal/fileutil"
)

// runDecode writes decoded PDFs to disk without a browser.
// One input goes to --output (or stdout for "-o -"); several inputs go into
// the --output directory, named after each input.
func runDecode(ctx context.Context, args []string, env *Environment) error {
	f := &decodeCmdFlags{}
	fs := buildDecodeFlagSet(f)
	fs.Usage = func() { printDecodeUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()
	cfg, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	applyDecoderFlags(fs, &f.decoder, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		if env.StdinIsTerminal() {
			return ErrNoInput
		}
		inputs = []string{fileutil.StdinPath}
	}

	jobs, err := planDecode(inputs, f.output)
	if err != nil {
		return err
	}

	log := newLogger(env, &f.common)
	dec := newDecoder(cfg)

	// One failed input does not stop the others; every error is reported.
	errs := make([]error, len(jobs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = decodeOne(job, dec, cfg, f.force, env, log)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// stdoutPath as --output writes the document to stdout.
const stdoutPath = "-"

// decodeJob maps one input to one output.
type decodeJob struct {
	input  string
	output string
}

// planDecode resolves output paths and rejects ambiguous combinations.
func planDecode(inputs []string, output string) ([]decodeJob, error) {
	stdinCount := 0
	for _, in := range inputs {
		if in == fileutil.StdinPath {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return nil, fmt.Errorf("%w: stdin can only be read once", ErrUsage)
	}

	if len(inputs) == 1 {
		out := output
		if out == "" {
			out = defaultOutputPath(inputs[0])
		} else if info, err := os.Stat(out); err == nil && info.IsDir() {
			out = filepath.Join(out, filepath.Base(defaultOutputPath(inputs[0])))
		}
		return []decodeJob{{input: inputs[0], output: out}}, nil
	}

	if output == stdoutPath {
		return nil, fmt.Errorf("%w: several inputs cannot be written to stdout", ErrUsage)
	}

	jobs := make([]decodeJob, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := defaultOutputPath(in)
		if output != "" {
			out = filepath.Join(output, filepath.Base(out))
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s would both write %s", ErrUsage, prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, decodeJob{input: in, output: out})
	}
	return jobs, nil
}

// defaultOutputPath replaces the input extension with .pdf.
// Stdin defaults to document.pdf.
func defaultOutputPath(input string) string {
	if input == fileutil.StdinPath {
		return "document.pdf"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

func decodeOne(job decodeJob, dec *b64pdf.Decoder, cfg *config.Config, force bool, env *Environment, log *logger) error {
	raw, err := readInput(job.input, env.Stdin, cfg)
	if err != nil {
		return err
	}

	doc, err := dec.Decode(string(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", displayPath(job.input), err)
	}
	if !doc.HasPDFHeader() {
		log.Warnf("warning: %s does not start with %%PDF-", displayPath(job.input))
	}

	if job.output == stdoutPath {
		if _, err := env.Stdout.Write(doc.Data); err != nil {
			return fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
		}
		return nil
	}

	if !force && fileutil.FileExists(job.output) {
		return fmt.Errorf("%w: %s exists (use --force to overwrite)", ErrWriteOutput, job.output)
	}
	if err := fileutil.WriteFileAtomic(job.output, doc.Data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, job.output, err)
	}
	log.Infof("Wrote %s (%d bytes)", job.output, doc.Size())
	return nil
}
