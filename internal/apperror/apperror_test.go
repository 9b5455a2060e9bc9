package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth("not signed in"), http.StatusUnauthorized},
		{Conflict("already exists"), http.StatusConflict},
		{NotFound("missing"), http.StatusNotFound},
		{Internal("oops", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), tt.err.Message)
	}
}

func TestInternalKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("could not sign in, try again", cause)

	assert.Equal(t, "could not sign in, try again", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFrom(t *testing.T) {
	t.Run("passes through application errors", func(t *testing.T) {
		orig := Conflict("this email is already registered")
		got := From(fmt.Errorf("handler: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("wraps unknown errors with a generic message", func(t *testing.T) {
		cause := errors.New("sql: no rows")
		got := From(cause)

		require.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, "something went wrong, try again later", got.Message)
		assert.ErrorIs(t, got, cause)
	})
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Validation("bad input"))

	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindAuth))
	assert.False(t, IsKind(errors.New("plain"), KindValidation))
	assert.False(t, IsKind(nil, KindInternal))
}
