package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"pasar/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestSentinelIdentity(t *testing.T) {
	// Two sentinels with identical kind and message are still distinct.
	a := apperr.New(apperr.Unauthenticated, "Invalid or expired token")
	b := apperr.New(apperr.Unauthenticated, "Invalid or expired token")

	assert.ErrorIs(t, a, a)
	assert.NotErrorIs(t, a, b)
}

func TestWithCause(t *testing.T) {
	sentinel := apperr.New(apperr.Conflict, "Email already registered")
	cause := errors.New("UNIQUE constraint failed: users.email")

	err := sentinel.WithCause(cause)
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)

	ae := apperr.From(err)
	assert.Equal(t, apperr.Conflict, ae.Kind)
	assert.Equal(t, "Email already registered", ae.Message)
}

func TestFromUnclassified(t *testing.T) {
	ae := apperr.From(fmt.Errorf("driver: bad connection"))
	assert.Equal(t, apperr.Internal, ae.Kind)
	assert.Equal(t, "Server error", ae.Message, "internal causes never leak to the caller")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Validation:      http.StatusBadRequest,
		apperr.NotFound:        http.StatusNotFound,
		apperr.Unauthenticated: http.StatusUnauthorized,
		apperr.Forbidden:       http.StatusForbidden,
		apperr.Conflict:        http.StatusConflict,
		apperr.Internal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, apperr.HTTPStatus(kind))
	}
}
