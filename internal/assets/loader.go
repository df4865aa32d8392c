package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

// Embedded returns the loader for the built-in assets.
func Embedded() EmbeddedLoader { return EmbeddedLoader{} }

func (EmbeddedLoader) Load(kind Kind, name string) (string, error) {
	return readAsset(embedded, kind, name)
}

// DirLoader serves assets from a directory on disk.
type DirLoader struct {
	dir string
}

// NewDirLoader checks that dir is a readable directory.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, abs)
	}
	return &DirLoader{dir: abs}, nil
}

// Dir returns the absolute directory assets are read from.
func (d *DirLoader) Dir() string { return d.dir }

func (d *DirLoader) Load(kind Kind, name string) (string, error) {
	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()
	return readAsset(root.FS(), kind, name)
}

func readAsset(fsys fs.FS, kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(fsys, kind.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", kind.notFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s %q: %v", ErrAssetRead, kind, name, err)
	}
	return string(content), nil
}

// Compile-time interface checks.
var (
	_ Loader = EmbeddedLoader{}
	_ Loader = (*DirLoader)(nil)
)
