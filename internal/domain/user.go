package domain

import (
	"errors"
	"strings"
)

// ErrInvalidUsername is returned when a username is blank.
var ErrInvalidUsername = errors.New("username must not be empty")

// User is an account that can review and wishlist games.
// Username is the identity and is case-sensitive.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // bcrypt or argon2id encoded hash
}

// NewUser creates a user from an already hashed password.
func NewUser(username, passwordHash string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	return &User{Username: username, PasswordHash: passwordHash}, nil
}

// CompareUsers orders users by username.
func CompareUsers(a, b *User) int {
	return strings.Compare(a.Username, b.Username)
}
