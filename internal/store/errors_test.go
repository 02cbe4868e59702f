package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/j0yzhu/GameWebApp/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "not found",
	}

	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "not found",
		Err:     cause,
	}

	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "underlying error")
	assert.Equal(t, cause, err.Unwrap())
}

func TestError_HTTPCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, store.ErrNotFound.HTTPCode())
	assert.Equal(t, http.StatusConflict, store.ErrAlreadyExists.HTTPCode())
}

func TestError_WithMessage(t *testing.T) {
	modified := store.ErrNotFound.WithMessagef("game %d not found", 7)

	assert.Equal(t, "game 7 not found", modified.Message)
	assert.Equal(t, "resource not found", store.ErrNotFound.Message, "sentinel must not change")
}

func TestError_IsMatchesByCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel", store.ErrNotFound, store.ErrNotFound, true},
		{"custom message", store.ErrNotFound.WithMessage("genre missing"), store.ErrNotFound, true},
		{"with cause", store.ErrAlreadyExists.WithCause(errors.New("unique")), store.ErrAlreadyExists, true},
		{"wrapped", fmt.Errorf("add game: %w", store.ErrAlreadyExists), store.ErrAlreadyExists, true},
		{"different code", store.ErrNotFound, store.ErrAlreadyExists, false},
		{"plain error", errors.New("boom"), store.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}
