package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/j0yzhu/GameWebApp/internal/id"
)

const (
	tokenIssuer   = "gamewebapp"
	tokenAudience = "gamewebapp-session"
)

// ErrInvalidSession is returned for tokens that fail decryption or validation.
var ErrInvalidSession = errors.New("invalid session token")

// SessionService issues and verifies the encrypted session cookie value.
// Tokens are PASETO v4.local, so the username inside is not readable
// without the key.
type SessionService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
}

// NewSessionService creates a session service from a 32-byte key.
func NewSessionService(key []byte, duration time.Duration) (*SessionService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("session key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	if duration <= 0 {
		return nil, fmt.Errorf("session duration must be positive, got %s", duration)
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}
	return &SessionService{key: k, duration: duration}, nil
}

// Duration returns how long issued sessions stay valid.
func (s *SessionService) Duration() time.Duration {
	return s.duration
}

// Issue creates a session token for username.
func (s *SessionService) Issue(username string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(username)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.duration))

	tokenID, err := id.Generate("session")
	if err != nil {
		return "", fmt.Errorf("generate session ID: %w", err)
	}
	token.SetJti(tokenID)

	return token.V4Encrypt(s.key, nil), nil
}

// Verify decrypts and validates a session token.
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	username, err := token.GetSubject()
	if err != nil || username == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	claims := &SessionClaims{Username: username}
	claims.TokenID, _ = token.GetJti()
	claims.IssuedAt, _ = token.GetIssuedAt()
	claims.ExpiresAt, _ = token.GetExpiration()
	return claims, nil
}
