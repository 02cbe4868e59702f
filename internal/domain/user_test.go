package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
		expected string
	}{
		{"trims whitespace", "  alice ", nil, "alice"},
		{"keeps case", "Alice", nil, "Alice"},
		{"rejects blank", "   ", ErrInvalidUsername, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.username, "hash")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, user.Username)
			assert.Equal(t, "hash", user.PasswordHash)
		})
	}
}

func TestCompareUsers(t *testing.T) {
	a := &User{Username: "alice"}
	b := &User{Username: "bob"}

	assert.Negative(t, CompareUsers(a, b))
	assert.Positive(t, CompareUsers(b, a))
	assert.Zero(t, CompareUsers(a, &User{Username: "alice"}))
}
