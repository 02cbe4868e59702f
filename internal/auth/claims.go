package auth

import "time"

// SessionClaims are the verified contents of a session token.
type SessionClaims struct {
	Username  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
