package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/ratelimit"
	"github.com/j0yzhu/GameWebApp/internal/service"
	"github.com/j0yzhu/GameWebApp/internal/store"
	"github.com/j0yzhu/GameWebApp/internal/store/memory"
	"github.com/j0yzhu/GameWebApp/internal/store/storetest"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

// testServer wraps the server with a huma test client and the seeded repositories.
type testServer struct {
	*Server
	api   humatest.TestAPI
	repos *store.Repositories
}

type serverOption func(*Services, **RateLimiter)

func withLimiter(l *RateLimiter) serverOption {
	return func(_ *Services, limiter **RateLimiter) { *limiter = l }
}

func withPinger(p store.Pinger) serverOption {
	return func(s *Services, _ **RateLimiter) { s.Health = p }
}

// setupTestServer creates a server over a seeded in-memory catalog.
func setupTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	repos := memory.New()
	storetest.Seed(t, repos)

	hasher, err := auth.NewPasswordHasher(auth.AlgorithmBcrypt, 4)
	require.NoError(t, err)

	sessions, err := auth.NewSessionService(bytes.Repeat([]byte{7}, 32), time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	services := &Services{
		Games:    service.NewGameService(repos.Games, logger),
		Users:    service.NewUserService(repos.Users, hasher, logger),
		Reviews:  service.NewReviewService(repos, logger),
		Wishlist: service.NewWishlistService(repos, logger),
	}

	limiter := ratelimit.New(1000, 1000)
	t.Cleanup(limiter.Stop)
	for _, opt := range opts {
		opt(services, &limiter)
	}

	srv, err := NewServer(services, sessions, limiter, validation.New(), Options{}, logger)
	require.NoError(t, err)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
		repos:  repos,
	}
}

// do sends req through the full middleware stack.
func (ts *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (ts *testServer) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req, cookies...)
}

// register creates an account through the HTML form and returns its session cookie.
func (ts *testServer) register(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := ts.post("/authentication/register", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	cookie := sessionCookieFrom(rec)
	require.NotNil(t, cookie)
	return cookie
}

func sessionCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

// decodeEnvelope unwraps a successful API response into data.
func decodeEnvelope(t *testing.T, body []byte, data any) {
	t.Helper()
	var env struct {
		Version int             `json:"v"`
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	require.True(t, env.Success, string(body))
	assert.Equal(t, EnvelopeVersion, env.Version)
	require.NoError(t, json.Unmarshal(env.Data, data))
}

// decodeError unwraps an API error envelope.
func decodeError(t *testing.T, body []byte) APIErrorEnvelope {
	t.Helper()
	var env APIErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.False(t, env.Success)
	return env
}

func TestServer_RequestIDHeader(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.get("/")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	rec = ts.do(req)
	assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-Id"))
}

func TestServer_CORSOnlyOnAPI(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := ts.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/games", nil)
	req.Header.Set("Origin", "https://example.com")
	rec = ts.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_NotFoundPage(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 Not Found")
}

func TestServer_LoginRateLimited(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	t.Cleanup(limiter.Stop)
	ts := setupTestServer(t, withLimiter(limiter))

	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	rec := ts.post("/authentication/login", form)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.post("/authentication/login", form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Pages stay reachable.
	rec = ts.get("/authentication/login")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:1234", "198.51.100.7"},
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
