package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the built-in assets.
const (
	StylePreview        = "preview"
	TemplatePlaceholder = "placeholder"
	TemplateViewer      = "viewer"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
)

// Kind selects the directory and extension an asset name resolves to.
type Kind int

const (
	Style Kind = iota
	Template
)

func (k Kind) String() string {
	switch k {
	case Style:
		return "style"
	case Template:
		return "template"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// path is slash-separated for both embed.FS and os.Root.
func (k Kind) path(name string) string {
	if k == Style {
		return "styles/" + name + ".css"
	}
	return "templates/" + name + ".html"
}

func (k Kind) notFound(name string) error {
	if k == Style {
		return fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// IsNotFound reports whether err means the asset is absent, as opposed to
// unreadable or badly named.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// Loader returns the content of a named asset.
type Loader interface {
	Load(kind Kind, name string) (string, error)
}

// ValidateName checks that name is a bare file stem. Separators, dots and
// NUL bytes are rejected so a name cannot pick another directory or
// extension.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
