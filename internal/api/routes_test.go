package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/j0yzhu/GameWebApp/internal/pagination"
)

func TestRoutes_URLFor(t *testing.T) {
	routes := NewRoutes()

	tests := []struct {
		name     string
		endpoint string
		params   url.Values
		want     string
	}{
		{"static", EndpointGames, nil, "/games"},
		{"query sorted", EndpointGames, url.Values{"sort_by": {"title"}, "count": {"5"}, "page": {"2"}}, "/games?count=5&page=2&sort_by=title"},
		{"path param", EndpointGame, url.Values{"id": {"10"}}, "/games/game/10"},
		{"escaped path param", EndpointGenre, url.Values{"name": {"Free to Play"}}, "/games/genre/Free%20to%20Play"},
		{"path and query", EndpointAPIGenreGames, url.Values{"name": {"Action"}, "page": {"3"}}, "/api/v1/genres/Action/games?page=3"},
		{"unknown endpoint", "nope.index", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routes.URLFor(tt.endpoint, tt.params))
		})
	}
}

func TestRoutes_URLForDoesNotMutateParams(t *testing.T) {
	routes := NewRoutes()
	params := url.Values{"name": {"Action"}, "count": {"2"}}

	routes.URLFor(EndpointGenre, params)
	assert.Equal(t, "Action", params.Get("name"))
}

func TestRoutes_Path(t *testing.T) {
	routes := NewRoutes()

	assert.Equal(t, "/", routes.Path(EndpointHome))
	assert.Equal(t, "/profile/alice", routes.Path(EndpointUserProfile, "username", "alice"))
	assert.Equal(t, "/wishlist/remove/30", routes.Path(EndpointWishlistDel, "id", "30"))
}

func TestRoutes_PatternPanicsOnUnknownEndpoint(t *testing.T) {
	routes := NewRoutes()

	assert.Equal(t, "/games/publisher/{name}", routes.Pattern(EndpointPublisher))
	assert.Panics(t, func() { routes.Pattern("nope.index") })
}

func TestRoutes_PageLinks(t *testing.T) {
	routes := NewRoutes()
	users := []string{"alice", "bob", "carol", "dave", "erin"}

	pg := pagination.Slice(users, pagination.Params{Page: 2, PerPage: 2}).
		WithTotal(len(users)).
		WithLinks(routes, EndpointAPIUsers, url.Values{"count": {"2"}})

	assert.Equal(t, []string{"carol", "dave"}, pg.Items)
	assert.Equal(t, pagination.Links{
		Next:  "/api/v1/users?count=2&page=3",
		Prev:  "/api/v1/users?count=2&page=1",
		First: "/api/v1/users?count=2&page=1",
		Last:  "/api/v1/users?count=2&page=3",
	}, pg.Links())
}
