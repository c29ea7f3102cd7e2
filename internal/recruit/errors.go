package recruit

import "errors"

var (
	// ErrNotFound means the candidate or job does not exist, or is not
	// visible to the caller.
	ErrNotFound = errors.New("recruit: not found")

	// ErrInvalidInput means the payload failed validation.
	ErrInvalidInput = errors.New("recruit: invalid input")
)
