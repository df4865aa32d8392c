package b64pdf

import "context"

// Handle is a revocable reference that the host resolves to a document's bytes.
type Handle struct {
	ID  string
	URL string
}

// Host abstracts the browser environment: browsing contexts and handles.
// Implementations must be safe for concurrent use.
type Host interface {
	// OpenSurface creates a new blank browsing context.
	// Returns an error wrapping ErrSurfaceUnavailable if the host refuses.
	OpenSurface(ctx context.Context) (Surface, error)

	// CurrentSurface returns the browsing context the application runs in.
	CurrentSurface(ctx context.Context) (Surface, error)

	// CreateHandle registers doc and returns a handle resolving to it.
	CreateHandle(doc *Document) (Handle, error)

	// RevokeHandle releases h. Revoking an unknown or revoked handle is a no-op.
	RevokeHandle(h Handle) error
}

// Surface is a tab or window the document, or a loading page, is shown in.
type Surface interface {
	// Navigate points the surface at url.
	Navigate(ctx context.Context, url string) error

	// Render replaces the surface document with html.
	Render(ctx context.Context, html string) error

	// Close closes the surface. Closing twice is a no-op.
	Close() error

	// Closed reports whether Close was called or the surface was destroyed.
	Closed() bool

	// OnLeave registers fn to run once, when the surface navigates away from
	// the URL given to the last Navigate call or is destroyed.
	OnLeave(fn func())
}

// Notifier shows a message the user has to acknowledge.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}
