package api

import (
	"context"
	"errors"

	domainerrors "github.com/kz4killua/wikirec/internal/errors"
)

// upstreamError turns a timed out upstream call into UNAVAILABLE. Other errors pass through.
func upstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "upstream request timed out")
	}
	return err
}

