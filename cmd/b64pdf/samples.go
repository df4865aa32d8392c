package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/alnah/go-b64pdf/internal/samples"
)

// descriptionIndent is the left margin of sample descriptions.
const descriptionIndent = 4

// runSamples lists the sample catalog.
func runSamples(args []string, env *Environment) error {
	f := &samplesFlags{}
	fs := buildSamplesFlagSet(f)
	fs.Usage = func() { printSamplesUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: samples takes no arguments", ErrUsage)
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()
	cfg, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if fs.Changed("catalog") {
		cfg.Samples.Catalog = f.catalog
	}

	catalog, err := samples.Open(cfg.Samples.Catalog)
	if err != nil {
		return err
	}

	printCatalog(env.Stdout, catalog, env.TermWidth(), f.common.quiet)
	return nil
}

// printCatalog writes one entry per sample: name and title, then the
// description wrapped to width. quiet prints names only.
func printCatalog(w io.Writer, c *samples.Catalog, width int, quiet bool) {
	if quiet {
		for _, name := range c.Names() {
			fmt.Fprintln(w, name)
		}
		return
	}

	wrapAt := max(width-descriptionIndent, 20)
	for i, s := range c.Samples {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Title != "" {
			fmt.Fprintf(w, "%s  %s\n", s.Name, s.Title)
		} else {
			fmt.Fprintln(w, s.Name)
		}

		desc := strings.TrimSpace(s.Description)
		if desc == "" {
			continue
		}
		wrapped := wordwrap.String(desc, wrapAt)
		fmt.Fprintln(w, indent.String(wrapped, descriptionIndent))
	}
}
