package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/logger"
)

// sessionCookie holds the encrypted session token.
const sessionCookie = "session"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// usernameKey is the context key for the logged-in username.
const usernameKey ctxKey = "username"

// currentUser returns the logged-in username, or "" for anonymous requests.
func currentUser(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

// setCurrentUser stores the username in context.
func setCurrentUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// loadSession reads the session cookie and stores the username in context.
// Missing or invalid cookies leave the request anonymous.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.sessions.Verify(cookie.Value)
		if err != nil {
			logger.FromContext(r.Context(), s.logger).Debug("discarding invalid session", "error", err)
			s.clearSession(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(setCurrentUser(r.Context(), claims.Username)))
	})
}

// requireLogin redirects anonymous requests to the login page. A session
// naming a user that no longer exists is cleared first.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := currentUser(r.Context())
		if username == "" {
			s.redirectToLogin(w, r)
			return
		}

		if _, err := s.services.Users.GetUser(r.Context(), username); err != nil {
			if !errors.Is(err, domainerrors.ErrNotFound) {
				s.renderError(w, r, err)
				return
			}
			logger.FromContext(r.Context(), s.logger).Info("session user no longer exists", "username", username)
			s.clearSession(w)
			s.redirectToLogin(w, r.WithContext(setCurrentUser(r.Context(), "")))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := s.routes.URLFor(EndpointLogin, url.Values{"next": {r.URL.RequestURI()}})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// startSession issues a session cookie for username.
func (s *Server) startSession(w http.ResponseWriter, username string) error {
	token, err := s.sessions.Issue(username)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to start session")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.Duration().Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeRedirect returns next when it is a path on this site, home otherwise.
func (s *Server) safeRedirect(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return s.routes.Path(EndpointHome)
}
