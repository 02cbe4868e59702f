package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck_InMemory(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	decodeEnvelope(t, resp.Body.Bytes(), &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["repository"].Status)
	assert.Equal(t, "in-memory", health.Components["repository"].Message)
}

func TestHealthCheck_Pinger(t *testing.T) {
	ts := setupTestServer(t, withPinger(pingerFunc(func(context.Context) error { return nil })))

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	decodeEnvelope(t, resp.Body.Bytes(), &health)
	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Components["repository"].Latency)
}

func TestHealthCheck_Unreachable(t *testing.T) {
	ts := setupTestServer(t, withPinger(pingerFunc(func(context.Context) error {
		return errors.New("database is locked")
	})))

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	decodeEnvelope(t, resp.Body.Bytes(), &health)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unhealthy", health.Components["repository"].Status)
	assert.Equal(t, "database is locked", health.Components["repository"].Message)
}
