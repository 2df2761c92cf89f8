package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-leave/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	conflict := apperror.New(apperror.CodeAlreadyDecided, "already decided", http.StatusConflict)

	t.Run("app error keeps status and code", func(t *testing.T) {
		got := apperror.ToHTTP(conflict)
		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeAlreadyDecided, got.Code)
		assert.Equal(t, "already decided", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		got := apperror.ToHTTP(fmt.Errorf("decide: %w", conflict))
		assert.Equal(t, http.StatusConflict, got.Status)
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestWithCause_StillMatchesSentinel(t *testing.T) {
	sentinel := apperror.New(apperror.CodeInvariantViolation, "ledger inconsistency", http.StatusInternalServerError)
	wrapped := sentinel.WithCause(errors.New("pending=0 days=3"))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.Contains(t, wrapped.Error(), "pending=0 days=3")
	assert.Nil(t, sentinel.Err)
}
