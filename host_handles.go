package b64pdf

import (
	"fmt"
	"io"

	"github.com/alnah/go-b64pdf/internal/handles"
)

// handleHost implements the handle half of Host on a loopback server.
// Browser hosts embed it.
type handleHost struct {
	store  *handles.Store
	server *handles.Server
}

func newHandleHost(accessLog io.Writer) (*handleHost, error) {
	store := handles.NewStore()

	var opts []handles.ServerOption
	if accessLog != nil {
		opts = append(opts, handles.WithAccessLog(accessLog))
	}
	server, err := handles.Listen(store, opts...)
	if err != nil {
		return nil, fmt.Errorf("starting handle server: %w", err)
	}
	return &handleHost{store: store, server: server}, nil
}

// CreateHandle implements Host.
func (h *handleHost) CreateHandle(doc *Document) (Handle, error) {
	if doc.Size() == 0 {
		return Handle{}, ErrEmptyDocument
	}
	id := h.store.Create(doc.Data, doc.MIMEType)
	url, err := h.server.URL(id)
	if err != nil {
		h.store.Revoke(id)
		return Handle{}, fmt.Errorf("%w: %v", ErrHostClosed, err)
	}
	return Handle{ID: id, URL: url}, nil
}

// RevokeHandle implements Host.
func (h *handleHost) RevokeHandle(hd Handle) error {
	h.store.Revoke(hd.ID)
	return nil
}

// ActiveHandles returns the number of handles not yet revoked.
func (h *handleHost) ActiveHandles() int {
	return h.store.Len()
}

// closeHandles revokes everything and stops the server.
func (h *handleHost) closeHandles() error {
	h.store.RevokeAll()
	return h.server.Close()
}
