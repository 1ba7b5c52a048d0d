package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/kz4killua/wikirec/internal/errors"
)

func TestEnvelopeTransformer_AlwaysIncludesVersion(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
	}{
		{name: "success response", status: "200", input: map[string]string{"key": "value"}},
		{name: "created response", status: "201", input: map[string]string{"id": "123"}},
		{name: "no content response", status: "204", input: nil},
		{name: "bad request error", status: "400", input: errors.New("invalid input")},
		{name: "not found error", status: "404", input: errors.New("resource not found")},
		{
			name:   "api error with details",
			status: "400",
			input: &APIError{
				Code:    "VALIDATION",
				Message: "Request validation failed",
				Details: map[string]string{"category": "must be one of: movies, tv-series, books, music, games"},
			},
		},
		{name: "internal server error", status: "500", input: errors.New("internal error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeTransformer(nil, tt.status, tt.input)
			require.NoError(t, err)

			jsonBytes, err := json.Marshal(result)
			require.NoError(t, err)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(jsonBytes, &envelope))

			require.Contains(t, envelope, "v", "Envelope must contain version field 'v'")
			assert.Equal(t, float64(EnvelopeVersion), envelope["v"])
			require.Contains(t, envelope, "success")
		})
	}
}

func TestEnvelopeTransformer_SuccessResponse(t *testing.T) {
	data := map[string]string{"heading": "We found some movies you'll love"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	assert.Equal(t, EnvelopeVersion, envelope.V)
	assert.True(t, envelope.Success)
	assert.Equal(t, data, envelope.Data)
	assert.Nil(t, envelope.Error)
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "503", errors.New("upstream down"))
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	assert.False(t, envelope.Success)
	assert.Nil(t, envelope.Data)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAVAILABLE", envelope.Error.Code)
	assert.Equal(t, "upstream down", envelope.Error.Message)
}

func TestEnvelopeTransformer_ErrorWithDetails(t *testing.T) {
	apiErr := &APIError{
		Code:    "CONFLICT",
		Message: "slot already holds a selection",
		Details: []string{"slot 1"},
	}

	result, err := EnvelopeTransformer(nil, "409", apiErr)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
	assert.Equal(t, "slot already holds a selection", envelope.Error.Message)
	assert.Equal(t, []string{"slot 1"}, envelope.Error.Details)
}

func TestEnvelopeTransformer_PassesEnvelopeThrough(t *testing.T) {
	in := APIEnvelope{V: EnvelopeVersion, Success: true, Data: "already wrapped"}

	result, err := EnvelopeTransformer(nil, "200", in)
	require.NoError(t, err)
	assert.Equal(t, in, result)
}

func TestNewAPIError(t *testing.T) {
	t.Run("domain error keeps its status and code", func(t *testing.T) {
		err := newAPIError(http.StatusInternalServerError, "unexpected error occurred",
			domainerrors.TokenExpired("session token has expired"))

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, apiErr.GetStatus())
		assert.Equal(t, "TOKEN_EXPIRED", apiErr.Code)
		assert.Equal(t, "session token has expired", apiErr.Message)
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		wrapped := errors.Join(errors.New("other"), domainerrors.Forbidden("nope"))
		err := newAPIError(http.StatusInternalServerError, "unexpected error occurred", wrapped)

		assert.Equal(t, http.StatusForbidden, err.GetStatus())
	})

	t.Run("validation failures become 400 with details", func(t *testing.T) {
		err := newAPIError(http.StatusUnprocessableEntity, "validation failed",
			&huma.ErrorDetail{Location: "body.category", Message: "expected string"},
			&huma.ErrorDetail{Location: "path.slot", Message: "expected number <= 3"},
		)

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.GetStatus())
		assert.Equal(t, "VALIDATION", apiErr.Code)
		assert.Equal(t, map[string]string{
			"category":  "expected string",
			"path.slot": "expected number <= 3",
		}, apiErr.Details)
	})

	t.Run("plain status", func(t *testing.T) {
		err := newAPIError(http.StatusNotFound, "no such route")

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", apiErr.Code)
		assert.Nil(t, apiErr.Details)
	})
}

func TestStatusToCode(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          "VALIDATION",
		http.StatusUnprocessableEntity: "VALIDATION",
		http.StatusUnauthorized:        "UNAUTHORIZED",
		http.StatusForbidden:           "FORBIDDEN",
		http.StatusNotFound:            "NOT_FOUND",
		http.StatusConflict:            "CONFLICT",
		http.StatusTooManyRequests:     "RATE_LIMITED",
		http.StatusServiceUnavailable:  "UNAVAILABLE",
		http.StatusTeapot:              "INTERNAL",
	}
	for status, want := range tests {
		assert.Equal(t, want, statusToCode(status), "status %d", status)
	}
}
