package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewNotFound("Bug report", nil)
	wrapped := fmt.Errorf("update: %w", base)

	de := ToDomainError(wrapped)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "Bug report not found", de.Message)
}

func TestToDomainError_HidesUnknownCause(t *testing.T) {
	de := ToDomainError(errors.New("open /data/x.json: permission denied"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestIsStatus(t *testing.T) {
	assert.True(t, IsStatus(NewUnauthorized("x"), http.StatusUnauthorized))
	assert.True(t, IsStatus(NewForbidden("x"), http.StatusForbidden))
	assert.True(t, IsStatus(NewRateLimited("x"), http.StatusTooManyRequests))
	assert.False(t, IsStatus(NewValidationError("x", nil), http.StatusNotFound))
}
