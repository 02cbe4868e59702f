package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(fill byte) []byte {
	key := make([]byte, keyLength)
	for i := range key {
		key[i] = fill
	}
	return key
}

func TestNewSessionService(t *testing.T) {
	_, err := NewSessionService([]byte("short"), time.Hour)
	assert.Error(t, err)

	_, err = NewSessionService(testKey(1), 0)
	assert.Error(t, err)

	s, err := NewSessionService(testKey(1), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.Duration())
}

func TestSessionService_RoundTrip(t *testing.T) {
	s, err := NewSessionService(testKey(1), time.Hour)
	require.NoError(t, err)

	token, err := s.Issue("alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))
	assert.NotContains(t, token, "alice", "claims are encrypted")

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, strings.HasPrefix(claims.TokenID, "session-"), claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestSessionService_RejectsOtherKey(t *testing.T) {
	a, err := NewSessionService(testKey(1), time.Hour)
	require.NoError(t, err)
	b, err := NewSessionService(testKey(2), time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("alice")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionService_RejectsGarbage(t *testing.T) {
	s, err := NewSessionService(testKey(1), time.Hour)
	require.NoError(t, err)

	_, err = s.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionService_RejectsExpired(t *testing.T) {
	s, err := NewSessionService(testKey(1), time.Millisecond)
	require.NoError(t, err)

	token, err := s.Issue("alice")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
