package assets

// Resolver reads a custom directory first and falls back to the embedded
// assets. Only a missing asset falls through; a bad name or a read error
// is returned as is.
type Resolver struct {
	custom *DirLoader // nil without a custom directory
}

// NewResolver returns a Resolver over dir, or over the embedded assets
// alone when dir is empty.
func NewResolver(dir string) (*Resolver, error) {
	if dir == "" {
		return &Resolver{}, nil
	}
	custom, err := NewDirLoader(dir)
	if err != nil {
		return nil, err
	}
	return &Resolver{custom: custom}, nil
}

// Custom reports whether a custom directory is configured.
func (r *Resolver) Custom() bool { return r.custom != nil }

func (r *Resolver) Load(kind Kind, name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.Load(kind, name)
		if !IsNotFound(err) {
			return content, err
		}
	}
	return Embedded().Load(kind, name)
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
