// Package process terminates the browser process tree started for a preview
// session, so closing the previewer never leaves orphaned Chrome helpers.
package process

import "errors"

// ErrInvalidPID is returned for PIDs that cannot lead a process group.
// Zero would address the caller's own group.
var ErrInvalidPID = errors.New("invalid pid")
