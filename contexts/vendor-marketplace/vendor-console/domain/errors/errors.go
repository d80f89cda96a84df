package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad local input. It never reaches the remote store.
	ErrValidation       = errors.New("validation failed")
	ErrInvalidDealValue = fmt.Errorf("%w: deal value must be a number greater than zero", ErrValidation)
	ErrInvalidVendorID  = fmt.Errorf("%w: vendor id is required", ErrValidation)

	// ErrRemote marks a failed remote write or query.
	ErrRemote = errors.New("remote call failed")

	// ErrPermissionCheck marks a failed role query. Resolvers fail closed on it.
	ErrPermissionCheck = errors.New("permission check failed")

	ErrInvalidSession = errors.New("invalid session token")
)

// RemoteError carries the HTTP status and the server error code when the
// remote side answered with one.
type RemoteError struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Code, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemote}
	}
	return []error{ErrRemote, e.Err}
}
