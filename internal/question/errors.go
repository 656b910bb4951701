package question

import "errors"

// Error kinds surfaced to handlers. Service errors wrap exactly one of these.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrUnprocessable = errors.New("unprocessable")
)

var (
	ErrMissingField = errors.New("missing or invalid field")
	ErrEmptyPool    = errors.New("no questions in quiz scope")
)
