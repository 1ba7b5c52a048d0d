package wikimedia

import (
	"errors"
	"fmt"
)

// Sentinel errors for Wikimedia API operations.
var (
	ErrBadRequest       = errors.New("wikimedia: bad request")
	ErrUnauthorized     = errors.New("wikimedia: access token rejected")
	ErrRateLimited      = errors.New("wikimedia: rate limited by server")
	ErrServer           = errors.New("wikimedia: server error")
	ErrUnexpectedStatus = errors.New("wikimedia: unexpected status")
	ErrInvalidLimit     = errors.New("wikimedia: limit must be positive")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "searchTitles"
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("wikimedia %s [%q]: %v", e.Op, e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, query string, err error) error {
	return &Error{Op: op, Query: query, Err: err}
}
