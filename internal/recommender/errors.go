package recommender

import (
	"errors"
	"fmt"
)

// Sentinel errors for recommendation service operations.
var (
	ErrNotConfigured    = errors.New("recommender: endpoint not configured")
	ErrNoKeys           = errors.New("recommender: at least one page key is required")
	ErrInvalidCategory  = errors.New("recommender: invalid category")
	ErrBadRequest       = errors.New("recommender: bad request")
	ErrServer           = errors.New("recommender: server error")
	ErrUnexpectedStatus = errors.New("recommender: unexpected status")
	ErrCircuitOpen      = errors.New("recommender: circuit open")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op       string // Operation: "recommend"
	Category string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("recommender %s [%s]: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, category string, err error) error {
	return &Error{Op: op, Category: category, Err: err}
}
