package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/pagination"
	"github.com/j0yzhu/GameWebApp/internal/service"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        s.routes.Pattern(EndpointAPIGames),
		Summary:     "List games",
		Description: "Returns one page of the catalog in the requested order",
		Tags:        []string{"Games"},
	}, s.handleAPIListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGames",
		Method:      http.MethodGet,
		Path:        s.routes.Pattern(EndpointAPISearch),
		Summary:     "Search games",
		Description: "Returns games whose title matches the term",
		Tags:        []string{"Games"},
	}, s.handleAPISearchGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/games/{id}",
		Summary:     "Get game",
		Description: "Returns a game with its average rating",
		Tags:        []string{"Games"},
	}, s.handleAPIGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGameReviews",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/games/{id}/reviews",
		Summary:     "Get game reviews",
		Description: "Returns the reviews of a game, highest rating first",
		Tags:        []string{"Games", "Reviews"},
	}, s.handleAPIGameReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/genres",
		Summary:     "List genres",
		Description: "Returns every genre sorted by name",
		Tags:        []string{"Genres"},
	}, s.handleAPIListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreGames",
		Method:      http.MethodGet,
		Path:        s.routes.Pattern(EndpointAPIGenreGames),
		Summary:     "Get genre games",
		Description: "Returns one page of the games tagged with a genre",
		Tags:        []string{"Genres"},
	}, s.handleAPIGenreGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPublishers",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/publishers",
		Summary:     "List publishers",
		Description: "Returns every publisher sorted by name",
		Tags:        []string{"Publishers"},
	}, s.handleAPIListPublishers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublisherGames",
		Method:      http.MethodGet,
		Path:        s.routes.Pattern(EndpointAPIPublisher),
		Summary:     "Get publisher games",
		Description: "Returns one page of the games released by a publisher",
		Tags:        []string{"Publishers"},
	}, s.handleAPIPublisherGames)
}

// === DTOs ===

// ListingParams are the query parameters shared by paged endpoints. They are
// read as strings so malformed values get the same messages as the HTML pages.
type ListingParams struct {
	Page  string `query:"page" doc:"Page number, starting at 1"`
	Count string `query:"count" doc:"Games per page"`
}

func (p ListingParams) values() url.Values {
	q := url.Values{}
	if p.Page != "" {
		q.Set("page", p.Page)
	}
	if p.Count != "" {
		q.Set("count", p.Count)
	}
	return q
}

type ListGamesInput struct {
	ListingParams
	SortBy    string `query:"sort_by" doc:"Ordering: default, title or release_date"`
	Ascending string `query:"ascending" doc:"true or false; release_date defaults to newest first"`
}

type SearchGamesInput struct {
	ListingParams
	Q string `query:"q" doc:"Search term"`
}

type GetGameInput struct {
	ID string `path:"id" doc:"Game ID"`
}

type NamedGamesInput struct {
	ListingParams
	Name string `path:"name" doc:"Genre or publisher name"`

	escaped bool
}

// Resolve notes whether the router matched the escaped path, in which case
// Name still carries its percent escapes.
func (i *NamedGamesInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.escaped = u.RawPath != ""
	return nil
}

type GameResponse struct {
	ID            int      `json:"id" doc:"Game ID"`
	Title         string   `json:"title" doc:"Title"`
	Price         float64  `json:"price" doc:"Price in USD"`
	ReleaseDate   string   `json:"release_date,omitempty" doc:"Release date as published"`
	Description   string   `json:"description,omitempty" doc:"About the game"`
	ImageURL      string   `json:"image_url,omitempty" doc:"Header image"`
	WebsiteURL    string   `json:"website_url,omitempty" doc:"Official website"`
	Publisher     string   `json:"publisher,omitempty" doc:"Publisher name"`
	Genres        []string `json:"genres" doc:"Genre names"`
	AverageRating *float64 `json:"average_rating,omitempty" doc:"Mean review rating, absent without reviews"`
}

type GamePageResponse struct {
	Games       []GameResponse   `json:"games" doc:"Games on this page"`
	Page        int              `json:"page" doc:"Page number"`
	PerPage     int              `json:"per_page" doc:"Requested page size"`
	HasNextPage bool             `json:"has_next_page" doc:"Whether a following page exists"`
	TotalPages  int              `json:"total_pages,omitempty" doc:"Number of pages, when known"`
	Links       pagination.Links `json:"links" doc:"Page links"`
}

type GamePageOutput struct {
	Body GamePageResponse
}

type GameOutput struct {
	Body GameResponse
}

type ReviewResponse struct {
	Username string `json:"username" doc:"Author"`
	GameID   int    `json:"game_id" doc:"Reviewed game"`
	Rating   int    `json:"rating" doc:"Rating from 0 to 5"`
	Comment  string `json:"comment" doc:"Review text"`
}

type GameReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews" doc:"Reviews, highest rating first"`
	AverageRating *float64         `json:"average_rating,omitempty" doc:"Mean rating, absent without reviews"`
}

type GameReviewsOutput struct {
	Body GameReviewsResponse
}

type NamesResponse struct {
	Names []string `json:"names" doc:"Sorted names"`
}

type NamesOutput struct {
	Body NamesResponse
}

// === Mappers ===

func mapGameResponse(g *domain.Game) GameResponse {
	resp := GameResponse{
		ID:          g.ID,
		Title:       g.Title,
		Price:       g.Price,
		ReleaseDate: g.ReleaseDate,
		Description: g.Description,
		ImageURL:    g.ImageURL,
		WebsiteURL:  g.WebsiteURL,
		Genres:      make([]string, len(g.Genres)),
	}
	if g.Publisher != nil {
		resp.Publisher = g.Publisher.Name
	}
	for i, genre := range g.Genres {
		resp.Genres[i] = genre.Name
	}
	return resp
}

func mapGamePage(pg *service.GamePage) GamePageResponse {
	games := make([]GameResponse, len(pg.Items))
	for i, g := range pg.Items {
		games[i] = mapGameResponse(g)
	}
	return GamePageResponse{
		Games:       games,
		Page:        pg.Page,
		PerPage:     pg.PerPage,
		HasNextPage: pg.HasNextPage,
		TotalPages:  pg.TotalPages,
		Links:       pg.Links(),
	}
}

// === Handlers ===

func (s *Server) handleAPIListGames(ctx context.Context, input *ListGamesInput) (*GamePageOutput, error) {
	q := input.values()
	if input.SortBy != "" {
		q.Set("sort_by", input.SortBy)
	}
	if input.Ascending != "" {
		q.Set("ascending", input.Ascending)
	}

	listing, err := s.validator.ParseListing(q)
	if err != nil {
		return nil, err
	}

	pg, err := s.services.Games.Browse(ctx, listing.SortBy, listing.Ascending, listing.Page, listing.Count)
	if err != nil {
		return nil, err
	}
	pg.WithLinks(s.routes, EndpointAPIGames, listingParams(listing))

	return &GamePageOutput{Body: mapGamePage(pg)}, nil
}

func (s *Server) handleAPISearchGames(ctx context.Context, input *SearchGamesInput) (*GamePageOutput, error) {
	term, err := validation.SearchTerm(input.Q)
	if err != nil {
		return nil, err
	}
	listing, err := s.validator.ParseListing(input.values())
	if err != nil {
		return nil, err
	}

	pg, err := s.services.Games.SearchGames(ctx, term, pagination.Params{Page: listing.Page, PerPage: listing.Count})
	if err != nil {
		return nil, err
	}
	pg.WithLinks(s.routes, EndpointAPISearch, url.Values{
		"q":     {term},
		"count": {strconv.Itoa(listing.Count)},
	})

	return &GamePageOutput{Body: mapGamePage(pg)}, nil
}

func (s *Server) handleAPIGetGame(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	gameID, err := validation.GameID(input.ID)
	if err != nil {
		return nil, err
	}

	game, err := s.services.Games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	avg, ok, err := s.services.Reviews.AverageRating(ctx, gameID)
	if err != nil {
		return nil, err
	}

	resp := mapGameResponse(game)
	if ok {
		resp.AverageRating = &avg
	}
	return &GameOutput{Body: resp}, nil
}

func (s *Server) handleAPIGameReviews(ctx context.Context, input *GetGameInput) (*GameReviewsOutput, error) {
	gameID, err := validation.GameID(input.ID)
	if err != nil {
		return nil, err
	}
	// Unknown games are a 404, not an empty list.
	if _, err := s.services.Games.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	reviews, err := s.services.Reviews.ReviewsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	avg, ok, err := s.services.Reviews.AverageRating(ctx, gameID)
	if err != nil {
		return nil, err
	}

	resp := GameReviewsResponse{Reviews: make([]ReviewResponse, len(reviews))}
	for i, r := range reviews {
		resp.Reviews[i] = ReviewResponse{
			Username: r.User.Username,
			GameID:   r.Game.ID,
			Rating:   r.Rating,
			Comment:  r.Comment,
		}
	}
	if ok {
		resp.AverageRating = &avg
	}
	return &GameReviewsOutput{Body: resp}, nil
}

func (s *Server) handleAPIListGenres(ctx context.Context, _ *struct{}) (*NamesOutput, error) {
	genres, err := s.services.Games.Genres(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return &NamesOutput{Body: NamesResponse{Names: names}}, nil
}

func (s *Server) handleAPIListPublishers(ctx context.Context, _ *struct{}) (*NamesOutput, error) {
	publishers, err := s.services.Games.Publishers(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(publishers))
	for i, p := range publishers {
		names[i] = p.Name
	}
	return &NamesOutput{Body: NamesResponse{Names: names}}, nil
}

func (s *Server) handleAPIGenreGames(ctx context.Context, input *NamedGamesInput) (*GamePageOutput, error) {
	return s.namedGames(ctx, input, EndpointAPIGenreGames, s.services.Games.GamesWithGenre)
}

func (s *Server) handleAPIPublisherGames(ctx context.Context, input *NamedGamesInput) (*GamePageOutput, error) {
	return s.namedGames(ctx, input, EndpointAPIPublisher, s.services.Games.GamesByPublisher)
}

func (s *Server) namedGames(ctx context.Context, input *NamedGamesInput, endpoint string, list filteredListing) (*GamePageOutput, error) {
	raw := input.Name
	if input.escaped {
		raw = unescapePath(raw)
	}
	name, err := validation.Name("name", raw)
	if err != nil {
		return nil, err
	}
	listing, err := s.validator.ParseListing(input.values())
	if err != nil {
		return nil, err
	}

	pg, err := list(ctx, name, pagination.Params{Page: listing.Page, PerPage: listing.Count})
	if err != nil {
		return nil, err
	}
	pg.WithLinks(s.routes, endpoint, url.Values{
		"name":  {name},
		"count": {strconv.Itoa(listing.Count)},
	})

	return &GamePageOutput{Body: mapGamePage(pg)}, nil
}
