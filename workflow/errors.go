package workflow

import "errors"

var (
	ErrIllegalTransition = errors.New("illegal screen transition")
	ErrIncompleteProfile = errors.New("skin color, skin type and environment are required")
	ErrWrongScreen       = errors.New("operation not available on the current screen")
	ErrScanInProgress    = errors.New("a scan is already in progress")
	ErrNoImage           = errors.New("no image captured")
	ErrSessionClosed     = errors.New("session closed")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTooManySessions   = errors.New("too many live sessions")
)
