// Package samples provides the catalog of ready-made documents that can be
// previewed without pasting any input.
package samples

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-b64pdf"
	"github.com/alnah/go-b64pdf/internal/yamlutil"
)

//go:embed catalog.yaml
var builtinYAML []byte

// Sentinel errors for catalog operations.
var (
	ErrNotFound      = errors.New("sample not found")
	ErrInvalidSample = errors.New("invalid sample")
)

// MaxNameLength bounds sample names.
const MaxNameLength = 64

// Catalog is an ordered list of samples with unique names.
type Catalog struct {
	Samples []b64pdf.Sample `yaml:"samples"`
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	var c Catalog
	if err := yamlutil.UnmarshalStrict(builtinYAML, &c); err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return &c, nil
}

// Load reads a user catalog file.
func Load(path string) (*Catalog, error) {
	var c Catalog
	if err := yamlutil.UnmarshalFile(path, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Open returns the built-in catalog, merged with the file at path when
// path is not empty.
func Open(path string) (*Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}
	user, err := Load(path)
	if err != nil {
		return nil, err
	}
	return c.Merge(user), nil
}

// Validate checks names and payload presence. Payloads are not decoded here:
// a malformed sample is reported when it is previewed, like any other input.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Samples))
	for i, s := range c.Samples {
		if err := validateName(s.Name); err != nil {
			return fmt.Errorf("%w: samples[%d]: %v", ErrInvalidSample, i, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidSample, s.Name)
		}
		seen[s.Name] = true
		if strings.TrimSpace(s.Data) == "" {
			return fmt.Errorf("%w: %q has no data", ErrInvalidSample, s.Name)
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name longer than %d characters", MaxNameLength)
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return fmt.Errorf("name %q: use lowercase letters, digits, '-' and '_'", name)
		}
	}
	return nil
}

// Merge returns a catalog with other's samples replacing same-named entries
// in place and new ones appended.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := &Catalog{Samples: append([]b64pdf.Sample(nil), c.Samples...)}
	index := make(map[string]int, len(merged.Samples))
	for i, s := range merged.Samples {
		index[s.Name] = i
	}
	for _, s := range other.Samples {
		if i, ok := index[s.Name]; ok {
			merged.Samples[i] = s
			continue
		}
		index[s.Name] = len(merged.Samples)
		merged.Samples = append(merged.Samples, s)
	}
	return merged
}

// Find returns the sample called name.
func (c *Catalog) Find(name string) (b64pdf.Sample, error) {
	for _, s := range c.Samples {
		if s.Name == name {
			return s, nil
		}
	}
	return b64pdf.Sample{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Names lists sample names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Samples))
	for i, s := range c.Samples {
		names[i] = s.Name
	}
	return names
}
