package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/j0yzhu/GameWebApp/internal/pagination"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        s.routes.Pattern(EndpointAPIUsers),
		Summary:     "List users",
		Description: "Returns one page of accounts ordered by username",
		Tags:        []string{"Users"},
	}, s.handleAPIListUsers)
}

type UserResponse struct {
	Username string `json:"username" doc:"Username"`
}

type UserPageResponse struct {
	Users       []UserResponse   `json:"users" doc:"Users on this page"`
	Page        int              `json:"page" doc:"Page number"`
	PerPage     int              `json:"per_page" doc:"Requested page size"`
	HasNextPage bool             `json:"has_next_page" doc:"Whether a following page exists"`
	TotalPages  int              `json:"total_pages,omitempty" doc:"Number of pages"`
	Links       pagination.Links `json:"links" doc:"Page links"`
}

type UserPageOutput struct {
	Body UserPageResponse
}

func (s *Server) handleAPIListUsers(ctx context.Context, input *ListingParams) (*UserPageOutput, error) {
	listing, err := s.validator.ParseListing(input.values())
	if err != nil {
		return nil, err
	}

	pg, err := s.services.Users.ListUsers(ctx, pagination.Params{Page: listing.Page, PerPage: listing.Count})
	if err != nil {
		return nil, err
	}
	pg.WithLinks(s.routes, EndpointAPIUsers, url.Values{"count": {strconv.Itoa(listing.Count)}})

	users := make([]UserResponse, len(pg.Items))
	for i, u := range pg.Items {
		users[i] = UserResponse{Username: u.Username}
	}
	return &UserPageOutput{Body: UserPageResponse{
		Users:       users,
		Page:        pg.Page,
		PerPage:     pg.PerPage,
		HasNextPage: pg.HasNextPage,
		TotalPages:  pg.TotalPages,
		Links:       pg.Links(),
	}}, nil
}
