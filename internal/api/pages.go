package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates. Each is parsed together with the base layout.
const (
	pageHome         = "home.html"
	pageAttributions = "attributions.html"
	pageGames        = "games.html"
	pageGame         = "game.html"
	pageLogin        = "login.html"
	pageRegister     = "register.html"
	pageProfile      = "profile.html"
	pageError        = "error.html"
)

type pages struct {
	byName map[string]*template.Template
}

func loadPages() (*pages, error) {
	funcs := template.FuncMap{
		"rating": func(avg float64) string { return strconv.FormatFloat(avg, 'f', 1, 64) },
	}

	names := []string{
		pageHome, pageAttributions, pageGames, pageGame,
		pageLogin, pageRegister, pageProfile, pageError,
	}
	p := &pages{byName: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := template.New("base.html").Funcs(funcs).
			ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

// layout is the data every page receives. Content holds the page specific part.
type layout struct {
	Title   string
	User    string
	Sidebar []genreLink
	Links   navLinks
	Content any
}

// navLinks are the URLs of the site navigation.
type navLinks struct {
	Home         string
	Games        string
	Search       string
	Attributions string
	Login        string
	Register     string
	Logout       string
	Profile      string
}

func (s *Server) navLinks() navLinks {
	return navLinks{
		Home:         s.routes.Path(EndpointHome),
		Games:        s.routes.Path(EndpointGames),
		Search:       s.routes.Path(EndpointGameSearch),
		Attributions: s.routes.Path(EndpointAttributions),
		Login:        s.routes.Path(EndpointLogin),
		Register:     s.routes.Path(EndpointRegister),
		Logout:       s.routes.Path(EndpointLogout),
		Profile:      s.routes.Path(EndpointProfile),
	}
}

// genreLink is one entry of the genre sidebar.
type genreLink struct {
	Name string
	URL  string
}

// render executes a page inside the base layout. The page is rendered into a
// buffer first so template failures still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	log := logger.FromContext(r.Context(), s.logger)

	t, ok := s.pages.byName[page]
	if !ok {
		log.Error("unknown page template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	genres, err := s.services.Games.Genres(r.Context())
	if err != nil {
		// The sidebar is decoration; render without it.
		log.Warn("failed to load genre sidebar", "error", err)
		genres = nil
	}

	data := layout{
		Title:   title,
		User:    currentUser(r.Context()),
		Sidebar: s.genreLinks(genres),
		Links:   s.navLinks(),
		Content: content,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) genreLinks(genres []domain.Genre) []genreLink {
	links := make([]genreLink, len(genres))
	for i, g := range genres {
		links[i] = genreLink{Name: g.Name, URL: s.routes.Path(EndpointGenre, "name", g.Name)}
	}
	return links
}

// errorPage is the content of error.html.
type errorPage struct {
	Status  int
	Reason  string
	Message string
}

// renderError renders error.html with the status mapped from err.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := domainerrors.HTTPStatus(err)
	message := "Something went wrong on our side."

	var appErr *domainerrors.Error
	if errors.As(err, &appErr) && appErr.Code != domainerrors.CodeInternal {
		message = appErr.Message
	} else {
		logger.FromContext(r.Context(), s.logger).Error("request failed", "error", err)
	}

	s.renderStatus(w, r, status, message)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, pageError, http.StatusText(status), errorPage{
		Status:  status,
		Reason:  http.StatusText(status),
		Message: message,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderStatus(w, r, http.StatusNotFound, "The page you requested does not exist.")
}
