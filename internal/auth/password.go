// Package auth provides password hashing and session tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// maxPasswordLength bounds the work done for a single hash.
const maxPasswordLength = 1024

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length")
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
)

// PasswordHasher hashes new passwords with one algorithm and verifies
// hashes produced by any supported algorithm.
type PasswordHasher struct {
	algorithm string
	cost      int
}

// NewPasswordHasher creates a hasher. The bcrypt cost is ignored for argon2id.
func NewPasswordHasher(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		if bcryptCost == 0 {
			bcryptCost = DefaultBcryptCost
		}
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, bcryptCost)
		}
		return &PasswordHasher{algorithm: AlgorithmBcrypt, cost: bcryptCost}, nil
	case AlgorithmArgon2id:
		return &PasswordHasher{algorithm: AlgorithmArgon2id}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}
}

// Algorithm returns the algorithm used for new hashes.
func (h *PasswordHasher) Algorithm() string {
	return h.algorithm
}

// Hash returns an encoded, salted hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}

	if h.algorithm == AlgorithmArgon2id {
		return hashArgon2id(password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. The algorithm is
// taken from the hash prefix; malformed hashes never match.
func (h *PasswordHasher) Verify(encodedHash, password string) bool {
	if len(password) > maxPasswordLength {
		return false
	}
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return verifyArgon2id(encodedHash, password)
	case isBcryptHash(encodedHash):
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	default:
		return false
	}
}

// IsPasswordHash reports whether s looks like a hash this package can verify.
func IsPasswordHash(s string) bool {
	return strings.HasPrefix(s, "$argon2id$") || isBcryptHash(s)
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
