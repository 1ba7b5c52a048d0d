package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kz4killua/wikirec/internal/http/response"
)

// EnvelopeVersion is the current envelope format, sent as "v".
const EnvelopeVersion = response.Version

// APIEnvelope is the body of every JSON API response.
type APIEnvelope = response.Envelope //nolint:revive // API prefix is intentional for clarity

// EnvelopeTransformer wraps every huma response body in the versioned envelope.
// ctx is unused and may be nil.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope:
		return body, nil
	case *APIError:
		return response.WrapError(body.Code, body.Message, body.Details), nil
	case error:
		code, _ := strconv.Atoi(status) //nolint:errcheck // Huma always passes a numeric status
		return response.WrapError(statusToCode(code), body.Error(), nil), nil
	default:
		return response.Wrap(v), nil
	}
}
