package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned when a verification status other than
	// yes/no is requested.
	ErrInvalidStatus = errors.New("invalid verification status")

	// ErrBusy is returned when a mutation is attempted while another one is
	// still in flight.
	ErrBusy = errors.New("profile store busy: another update is in progress")
)

// NotFoundError reports a profile id that does not resolve.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile with id %d not found", e.ID)
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
