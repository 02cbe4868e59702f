package api

import (
	"net/url"
	"strings"
)

// Named endpoints understood by Routes.URLFor.
const (
	EndpointHome          = "home.index"
	EndpointAttributions  = "home.attributions"
	EndpointGames         = "games.index"
	EndpointGameSearch    = "games.search"
	EndpointGame          = "games.game"
	EndpointGenre         = "games.genre"
	EndpointPublisher     = "games.publisher"
	EndpointRegister      = "authentication.register"
	EndpointLogin         = "authentication.login"
	EndpointLogout        = "authentication.logout"
	EndpointWishlistAdd   = "wishlist.add"
	EndpointWishlistDel   = "wishlist.remove"
	EndpointProfile       = "profile.index"
	EndpointUserProfile   = "profile.user"
	EndpointReviewAdd     = "review.add"
	EndpointAPIGames      = "api.games"
	EndpointAPISearch     = "api.games.search"
	EndpointAPIGenreGames = "api.genres.games"
	EndpointAPIPublisher  = "api.publishers.games"
	EndpointAPIUsers      = "api.users"
)

// Routes maps endpoint names to chi patterns and builds URLs for them.
type Routes struct {
	patterns map[string]string
}

// NewRoutes returns the route table of the application.
func NewRoutes() *Routes {
	return &Routes{patterns: map[string]string{
		EndpointHome:          "/",
		EndpointAttributions:  "/attributions",
		EndpointGames:         "/games",
		EndpointGameSearch:    "/games/search",
		EndpointGame:          "/games/game/{id}",
		EndpointGenre:         "/games/genre/{name}",
		EndpointPublisher:     "/games/publisher/{name}",
		EndpointRegister:      "/authentication/register",
		EndpointLogin:         "/authentication/login",
		EndpointLogout:        "/authentication/logout",
		EndpointWishlistAdd:   "/wishlist/add/{id}",
		EndpointWishlistDel:   "/wishlist/remove/{id}",
		EndpointProfile:       "/profile",
		EndpointUserProfile:   "/profile/{username}",
		EndpointReviewAdd:     "/review/add",
		EndpointAPIGames:      "/api/v1/games",
		EndpointAPISearch:     "/api/v1/games/search",
		EndpointAPIGenreGames: "/api/v1/genres/{name}/games",
		EndpointAPIPublisher:  "/api/v1/publishers/{name}/games",
		EndpointAPIUsers:      "/api/v1/users",
	}}
}

// Pattern returns the chi pattern registered for endpoint.
func (r *Routes) Pattern(endpoint string) string {
	p, ok := r.patterns[endpoint]
	if !ok {
		panic("api: unknown endpoint " + endpoint)
	}
	return p
}

// URLFor builds the URL of endpoint. Params whose names match a {placeholder}
// fill the path; the rest become the query string, sorted by key.
func (r *Routes) URLFor(endpoint string, params url.Values) string {
	pattern, ok := r.patterns[endpoint]
	if !ok {
		return ""
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}

	var b strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		name := rest[open+1 : open+end]
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(query.Get(name)))
		query.Del(name)
		rest = rest[open+end+1:]
	}

	if len(query) == 0 {
		return b.String()
	}
	return b.String() + "?" + query.Encode()
}

// Path is URLFor with path parameters given as name/value pairs.
func (r *Routes) Path(endpoint string, pairs ...string) string {
	params := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		params.Set(pairs[i], pairs[i+1])
	}
	return r.URLFor(endpoint, params)
}
