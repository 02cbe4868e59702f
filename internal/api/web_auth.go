package api

import (
	"errors"
	"net/http"

	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/logger"
)

// authPage is the content of login.html and register.html.
type authPage struct {
	Action      string
	Username    string
	Next        string
	Error       string
	OtherAction string
}

func (s *Server) loginPage(r *http.Request, username, message string) authPage {
	return authPage{
		Action:      s.routes.Path(EndpointLogin),
		Username:    username,
		Next:        r.FormValue("next"),
		Error:       message,
		OtherAction: s.routes.Path(EndpointRegister),
	}
}

func (s *Server) registerPage(r *http.Request, username, message string) authPage {
	return authPage{
		Action:      s.routes.Path(EndpointRegister),
		Username:    username,
		Next:        r.FormValue("next"),
		Error:       message,
		OtherAction: s.routes.Path(EndpointLogin),
	}
}

// GET /authentication/register
func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageRegister, "Register", s.registerPage(r, "", ""))
}

// handleRegister creates an account and logs it in.
// POST /authentication/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	creds, err := s.validator.ParseCredentials(r.PostForm)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, pageRegister, "Register",
			s.registerPage(r, r.PostForm.Get("username"), errorMessage(err)))
		return
	}

	user, err := s.services.Users.AddUser(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			s.render(w, r, http.StatusConflict, pageRegister, "Register",
				s.registerPage(r, creds.Username, "Your username is already taken - please supply another"))
			return
		}
		if errors.Is(err, domainerrors.ErrValidation) {
			s.render(w, r, http.StatusBadRequest, pageRegister, "Register",
				s.registerPage(r, creds.Username, errorMessage(err)))
			return
		}
		s.renderError(w, r, err)
		return
	}

	if err := s.startSession(w, user.Username); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, s.safeRedirect(r.PostForm.Get("next")), http.StatusSeeOther)
}

// GET /authentication/login
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageLogin, "Login", s.loginPage(r, "", ""))
}

// handleLogin checks credentials and starts a session. Unknown users and
// wrong passwords get the same answer.
// POST /authentication/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderStatus(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	creds, err := s.validator.ParseCredentials(r.PostForm)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, pageLogin, "Login",
			s.loginPage(r, r.PostForm.Get("username"), errorMessage(err)))
		return
	}

	user, err := s.services.Users.Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			s.render(w, r, http.StatusUnauthorized, pageLogin, "Login",
				s.loginPage(r, creds.Username, errorMessage(err)))
			return
		}
		s.renderError(w, r, err)
		return
	}

	if err := s.startSession(w, user.Username); err != nil {
		s.renderError(w, r, err)
		return
	}
	logger.FromContext(r.Context(), s.logger).Info("user logged in", "username", user.Username)
	http.Redirect(w, r, s.safeRedirect(r.PostForm.Get("next")), http.StatusSeeOther)
}

// handleLogout ends the session.
// GET|POST /authentication/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if currentUser(r.Context()) == "" {
		s.renderStatus(w, r, http.StatusUnauthorized, "You are not logged in.")
		return
	}
	s.clearSession(w)
	http.Redirect(w, r, s.routes.Path(EndpointHome), http.StatusSeeOther)
}

// errorMessage is the user facing text of a service error.
func errorMessage(err error) string {
	var appErr *domainerrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong on our side."
}
