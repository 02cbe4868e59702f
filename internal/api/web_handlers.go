package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/pagination"
	"github.com/j0yzhu/GameWebApp/internal/service"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

// homeLatestCount is how many recent releases the home page shows.
const homeLatestCount = 6

// gameCard is a game as shown in listings.
type gameCard struct {
	ID          int
	Title       string
	Price       string
	ReleaseDate string
	ImageURL    string
	Publisher   string
	URL         string
}

func (s *Server) gameCard(g *domain.Game) gameCard {
	card := gameCard{
		ID:          g.ID,
		Title:       g.Title,
		Price:       formatPrice(g.Price),
		ReleaseDate: g.ReleaseDate,
		ImageURL:    g.ImageURL,
		URL:         s.routes.Path(EndpointGame, "id", strconv.Itoa(g.ID)),
	}
	if g.Publisher != nil {
		card.Publisher = g.Publisher.Name
	}
	return card
}

func formatPrice(p float64) string {
	if p == 0 {
		return "Free"
	}
	return "$" + strconv.FormatFloat(p, 'f', 2, 64)
}

// sortLink switches the games listing to another ordering.
type sortLink struct {
	Label  string
	URL    string
	Active bool
}

// listingPage is the content of games.html.
type listingPage struct {
	Heading   string
	Query     string
	SearchURL string
	Games     []gameCard
	Sorts     []sortLink

	Page       int
	TotalPages int
	Next       string
	Prev       string
	First      string
	Last       string
}

func (s *Server) listingPage(heading string, pg *service.GamePage) listingPage {
	links := pg.Links()
	games := make([]gameCard, len(pg.Items))
	for i, g := range pg.Items {
		games[i] = s.gameCard(g)
	}
	return listingPage{
		Heading:    heading,
		SearchURL:  s.routes.Path(EndpointGameSearch),
		Games:      games,
		Page:       pg.Page,
		TotalPages: pg.TotalPages,
		Next:       links.Next,
		Prev:       links.Prev,
		First:      links.First,
		Last:       links.Last,
	}
}

// homePage is the content of home.html.
type homePage struct {
	Latest   []gameCard
	GamesURL string
	Total    int
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest, err := s.services.Games.GamesSortedByDate(ctx, pagination.Params{Page: 1, PerPage: homeLatestCount, Reverse: true})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	total, err := s.services.Games.NumberOfGames(ctx)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	content := homePage{GamesURL: s.routes.Path(EndpointGames), Total: total}
	for _, g := range latest.Items {
		content.Latest = append(content.Latest, s.gameCard(g))
	}
	s.render(w, r, http.StatusOK, pageHome, "Home", content)
}

func (s *Server) handleAttributions(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageAttributions, "Attributions", nil)
}

// handleGames lists the catalog.
// GET /games?page=&count=&sort_by=&ascending=
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	listing, err := s.validator.ParseListing(r.URL.Query())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	pg, err := s.services.Games.Browse(r.Context(), listing.SortBy, listing.Ascending, listing.Page, listing.Count)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	pg.WithLinks(s.routes, EndpointGames, listingParams(listing))

	content := s.listingPage("All games", pg)
	content.Sorts = s.sortLinks(listing)
	s.render(w, r, http.StatusOK, pageGames, "Games", content)
}

// listingParams are the query parameters carried into page links.
func listingParams(l validation.Listing) url.Values {
	return url.Values{
		"count":     {strconv.Itoa(l.Count)},
		"sort_by":   {l.SortBy},
		"ascending": {strconv.FormatBool(l.Ascending)},
	}
}

func (s *Server) sortLinks(current validation.Listing) []sortLink {
	options := []struct {
		label     string
		sortBy    string
		ascending bool
	}{
		{"Catalog order", service.SortDefault, true},
		{"Title A-Z", service.SortTitle, true},
		{"Title Z-A", service.SortTitle, false},
		{"Newest first", service.SortReleaseDate, false},
		{"Oldest first", service.SortReleaseDate, true},
	}

	links := make([]sortLink, len(options))
	for i, o := range options {
		l := validation.Listing{Page: 1, Count: current.Count, SortBy: o.sortBy, Ascending: o.ascending}
		links[i] = sortLink{
			Label:  o.label,
			URL:    s.routes.URLFor(EndpointGames, listingParams(l)),
			Active: current.SortBy == o.sortBy && current.Ascending == o.ascending,
		}
	}
	return links
}

// handleSearch lists games matching ?q=.
// GET /games/search?q=&page=&count=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("q") == "" {
		content := s.listingPage("Search", pagination.Slice[*domain.Game](nil, pagination.Params{Page: 1, PerPage: 1}))
		s.render(w, r, http.StatusOK, pageGames, "Search", content)
		return
	}

	term, err := validation.SearchTerm(q.Get("q"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	listing, err := s.validator.ParseListing(q)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	pg, err := s.services.Games.SearchGames(r.Context(), term, pagination.Params{Page: listing.Page, PerPage: listing.Count})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	pg.WithLinks(s.routes, EndpointGameSearch, url.Values{
		"q":     {term},
		"count": {strconv.Itoa(listing.Count)},
	})

	content := s.listingPage("Results for \""+term+"\"", pg)
	content.Query = term
	s.render(w, r, http.StatusOK, pageGames, "Search", content)
}

// handleGenre lists the games tagged with a genre.
// GET /games/genre/{name}
func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	s.handleFilteredListing(w, r, EndpointGenre, "Genre: ", s.services.Games.GamesWithGenre)
}

// handlePublisher lists the games of a publisher.
// GET /games/publisher/{name}
func (s *Server) handlePublisher(w http.ResponseWriter, r *http.Request) {
	s.handleFilteredListing(w, r, EndpointPublisher, "Publisher: ", s.services.Games.GamesByPublisher)
}

type filteredListing func(ctx context.Context, name string, p pagination.Params) (*service.GamePage, error)

func (s *Server) handleFilteredListing(w http.ResponseWriter, r *http.Request, endpoint, heading string, list filteredListing) {
	name, err := validation.Name("name", pathParam(r, "name"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	listing, err := s.validator.ParseListing(r.URL.Query())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	pg, err := list(r.Context(), name, pagination.Params{Page: listing.Page, PerPage: listing.Count})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	pg.WithLinks(s.routes, endpoint, url.Values{
		"name":  {name},
		"count": {strconv.Itoa(listing.Count)},
	})

	s.render(w, r, http.StatusOK, pageGames, name, s.listingPage(heading+name, pg))
}

// pathParam returns a decoded URL parameter. chi matches against RawPath
// only when it is set, otherwise the parameter is already decoded.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}
	return unescapePath(value)
}

// unescapePath decodes a path segment chi matched against the raw path.
// Segments that are not valid escapes are returned unchanged.
func unescapePath(raw string) string {
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// reviewView is one review on the game page.
type reviewView struct {
	Username   string
	ProfileURL string
	Rating     int
	Comment    string
}

// gamePage is the content of game.html.
type gamePage struct {
	Game         gameCard
	Description  string
	WebsiteURL   string
	PublisherURL string
	Genres       []genreLink

	Reviews    []reviewView
	Average    float64
	HasAverage bool

	// LoggedIn is false for anonymous visitors, who see no wishlist state.
	LoggedIn      bool
	Wishlisted    bool
	WishAddURL    string
	WishRemoveURL string
	ReviewURL     string
	LoginURL      string
	MaxRating     int
}

// handleGame shows a game with its reviews.
// GET /games/game/{id}
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gameID, err := validation.GameID(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	game, err := s.services.Games.GetGame(ctx, gameID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	reviews, err := s.services.Reviews.ReviewsForGame(ctx, gameID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	average, hasAverage, err := s.services.Reviews.AverageRating(ctx, gameID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	id := strconv.Itoa(game.ID)
	content := gamePage{
		Game:          s.gameCard(game),
		Description:   game.Description,
		WebsiteURL:    game.WebsiteURL,
		Genres:        s.genreLinks(game.Genres),
		Average:       average,
		HasAverage:    hasAverage,
		WishAddURL:    s.routes.Path(EndpointWishlistAdd, "id", id),
		WishRemoveURL: s.routes.Path(EndpointWishlistDel, "id", id),
		ReviewURL:     s.routes.Path(EndpointReviewAdd),
		LoginURL:      s.routes.URLFor(EndpointLogin, url.Values{"next": {r.URL.Path}}),
		MaxRating:     domain.MaxRating,
	}
	if game.Publisher != nil {
		content.PublisherURL = s.routes.Path(EndpointPublisher, "name", game.Publisher.Name)
	}
	for _, review := range reviews {
		content.Reviews = append(content.Reviews, reviewView{
			Username:   review.User.Username,
			ProfileURL: s.routes.Path(EndpointUserProfile, "username", review.User.Username),
			Rating:     review.Rating,
			Comment:    review.Comment,
		})
	}

	if username := currentUser(ctx); username != "" {
		wishlisted, err := s.services.Wishlist.HasWishlisted(ctx, username, gameID)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		content.LoggedIn = true
		content.Wishlisted = wishlisted
	}

	s.render(w, r, http.StatusOK, pageGame, game.Title, content)
}
