package installer

import (
	"errors"
	"io/fs"
	"syscall"
)

// FSError classifies filesystem errors the link state machine cares about.
type FSError int

const (
	FSNone FSError = iota
	FSNotFound
	FSCircularLink
	FSPermissionDenied
	FSOther
)

func (e FSError) String() string {
	switch e {
	case FSNone:
		return "none"
	case FSNotFound:
		return "not-found"
	case FSCircularLink:
		return "circular-link"
	case FSPermissionDenied:
		return "permission-denied"
	default:
		return "other"
	}
}

// Classify maps an error returned by the os package onto an FSError.
func Classify(err error) FSError {
	switch {
	case err == nil:
		return FSNone
	case errors.Is(err, fs.ErrNotExist):
		return FSNotFound
	case errors.Is(err, syscall.ELOOP):
		return FSCircularLink
	case errors.Is(err, fs.ErrPermission):
		return FSPermissionDenied
	default:
		return FSOther
	}
}
