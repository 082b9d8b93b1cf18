package web

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrAlreadyStarted is returned when OnStart is called on a supervisor
	// that already ran its start transition. A stopped supervisor cannot
	// be restarted; create a fresh instance instead.
	ErrAlreadyStarted = errors.New("web supervisor already started")

	// ErrRetriesExhausted marks a start failure caused by losing the
	// ephemeral-port race on every allowed bind attempt.
	ErrRetriesExhausted = errors.New("bind retries exhausted")
)

// StartError is the fatal outcome of a failed start transition. It wraps
// the underlying engine or allocator error and records the last address
// the supervisor tried to bind.
type StartError struct {
	Host         string
	Port         int
	ExplicitPort bool
	Err          error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start web server on %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// IsBindError reports whether err is an OS-level address-in-use failure.
// Only this class is considered transient by the retry loop; everything
// else propagates on the first occurrence.
func IsBindError(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
