package client

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned for a blank chat message; no request is made.
var ErrEmptyMessage = errors.New("message cannot be empty")

// TransportError is returned when a call fails to reach the backend or the
// backend answers with a non-2xx status. Status is 0 when no response was
// received.
type TransportError struct {
	Op      string
	Status  int
	Wrapped error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Wrapped != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Wrapped)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Wrapped != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	default:
		return e.Op + ": transport failure"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Wrapped
}

// Unreachable reports whether the backend could not be contacted at all.
func (e *TransportError) Unreachable() bool {
	return e.Status == 0
}

// IsTransport reports whether err carries a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
