package b64pdf

import "bytes"

// MIMETypePDF is the media type of every decoded document.
const MIMETypePDF = "application/pdf"

// pdfMagic is the header every well-formed PDF starts with.
var pdfMagic = []byte("%PDF-")

// Document is a decoded, non-empty PDF payload.
type Document struct {
	Data     []byte
	MIMEType string
}

// Size returns the document length in bytes.
func (d *Document) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Data)
}

// HasPDFHeader reports whether the payload starts with the PDF magic bytes.
// It is a hint for diagnostics only; the browser decides what it can render.
func (d *Document) HasPDFHeader() bool {
	return d != nil && bytes.HasPrefix(d.Data, pdfMagic)
}
