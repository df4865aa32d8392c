package b64pdf

import (
	"fmt"
	"io"
	"sync"
)

// diagLog writes developer diagnostics, one line per call.
// A nil *diagLog or a nil writer discards output.
type diagLog struct {
	mu sync.Mutex
	w  io.Writer
}

func newDiagLog(w io.Writer) *diagLog {
	return &diagLog{w: w}
}

func (l *diagLog) Printf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "b64pdf: "+format+"\n", args...)
}
