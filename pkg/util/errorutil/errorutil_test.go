package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{NewUnauthorized("nope"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{NewForbidden("nope"), http.StatusForbidden, "FORBIDDEN"},
		{NewNotFound("ticket"), http.StatusNotFound, "NOT_FOUND"},
		{NewDependencyError(errors.New("down")), http.StatusInternalServerError, "DEPENDENCY_UNAVAILABLE"},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		domainErr := ToDomainError(tc.err)
		require.NotNil(t, domainErr)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
		assert.Equal(t, tc.code, domainErr.Code)
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	assert.EqualError(t, NewNotFound("reply"), "reply not found")
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	domainErr := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	require.NotNil(t, domainErr)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
	assert.True(t, IsNotFound(domainErr))
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	domainErr := ToDomainError(errors.New("surprise"))
	require.NotNil(t, domainErr)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}

func TestToDomainErrorPreservesDomainError(t *testing.T) {
	original := NewForbidden("staff access required")
	wrapped := fmt.Errorf("handler: %w", original)
	assert.Same(t, ToDomainError(original), ToDomainError(wrapped))
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}
