package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/pagination"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// Sort orders accepted by Browse.
const (
	SortDefault     = "default"
	SortTitle       = "title"
	SortReleaseDate = "release_date"
)

// SortOptions lists the values Browse understands, in display order.
var SortOptions = []string{SortDefault, SortTitle, SortReleaseDate}

// GamePage is one page of a game listing.
type GamePage = pagination.Page[*domain.Game]

// GameService exposes the catalog: games, genres and publishers.
type GameService struct {
	games  store.GameRepository
	logger *slog.Logger
}

// NewGameService creates a new game service.
func NewGameService(games store.GameRepository, logger *slog.Logger) *GameService {
	return &GameService{
		games:  games,
		logger: logger,
	}
}

// GetGame returns a single game.
func (s *GameService) GetGame(ctx context.Context, id int) (*domain.Game, error) {
	game, err := s.games.GetGame(ctx, id)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("game %d", id))
	}
	return game, nil
}

// AddGame stores a game along with any genres and publisher it introduces.
func (s *GameService) AddGame(ctx context.Context, game *domain.Game) error {
	if game == nil || game.ID <= 0 {
		return invalid(domain.ErrInvalidGameID)
	}
	if strings.TrimSpace(game.Title) == "" {
		return invalid(domain.ErrInvalidTitle)
	}
	if err := s.games.AddGame(ctx, game); err != nil {
		return translate(err, fmt.Sprintf("game %d", game.ID))
	}

	if s.logger != nil {
		s.logger.Debug("game added", "game_id", game.ID, "title", game.Title)
	}
	return nil
}

// NumberOfGames counts the catalog.
func (s *GameService) NumberOfGames(ctx context.Context) (int, error) {
	n, err := s.games.NumberOfGames(ctx)
	if err != nil {
		return 0, translate(err, "games")
	}
	return n, nil
}

// Genres returns every genre sorted by name.
func (s *GameService) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := s.games.Genres(ctx)
	if err != nil {
		return nil, translate(err, "genres")
	}
	return genres, nil
}

// GetGenre returns the named genre.
func (s *GameService) GetGenre(ctx context.Context, name string) (domain.Genre, error) {
	genre, err := s.games.GetGenre(ctx, name)
	if err != nil {
		return domain.Genre{}, translate(err, fmt.Sprintf("genre %q", name))
	}
	return genre, nil
}

// AddGenre stores a new genre.
func (s *GameService) AddGenre(ctx context.Context, name string) (domain.Genre, error) {
	genre := domain.NewGenre(name)
	if genre.Name == "" {
		return domain.Genre{}, domainerrors.Validation("genre name must not be empty")
	}
	if err := s.games.AddGenre(ctx, genre); err != nil {
		return domain.Genre{}, translate(err, fmt.Sprintf("genre %q", genre.Name))
	}
	return genre, nil
}

// Publishers returns every publisher sorted by name.
func (s *GameService) Publishers(ctx context.Context) ([]domain.Publisher, error) {
	publishers, err := s.games.Publishers(ctx)
	if err != nil {
		return nil, translate(err, "publishers")
	}
	return publishers, nil
}

// GetPublisher returns the named publisher.
func (s *GameService) GetPublisher(ctx context.Context, name string) (domain.Publisher, error) {
	publisher, err := s.games.GetPublisher(ctx, name)
	if err != nil {
		return domain.Publisher{}, translate(err, fmt.Sprintf("publisher %q", name))
	}
	return publisher, nil
}

// ListGames pages the catalog in ID order and attaches the total count so the
// last page can be linked.
func (s *GameService) ListGames(ctx context.Context, p pagination.Params) (*GamePage, error) {
	page, err := s.paginate(ctx, p, "games", s.games.Games)
	if err != nil {
		return nil, err
	}
	total, err := s.NumberOfGames(ctx)
	if err != nil {
		return nil, err
	}
	return page.WithTotal(total), nil
}

// GamesSortedAlphabetically pages the catalog by title.
func (s *GameService) GamesSortedAlphabetically(ctx context.Context, p pagination.Params) (*GamePage, error) {
	return s.paginate(ctx, p, "games", s.games.GamesSortedAlphabetically)
}

// GamesSortedByDate pages the catalog by release date. Reverse lists the
// newest games first; undated games trail in both directions.
func (s *GameService) GamesSortedByDate(ctx context.Context, p pagination.Params) (*GamePage, error) {
	return s.paginate(ctx, p, "games", s.games.GamesSortedByDate)
}

// SearchGames pages the games matching term.
func (s *GameService) SearchGames(ctx context.Context, term string, p pagination.Params) (*GamePage, error) {
	return s.paginate(ctx, p, "games", func(ctx context.Context, opts store.ListOptions) ([]*domain.Game, error) {
		return s.games.SearchGames(ctx, term, opts)
	})
}

// GamesWithGenre pages the games tagged with the named genre.
func (s *GameService) GamesWithGenre(ctx context.Context, genre string, p pagination.Params) (*GamePage, error) {
	return s.paginate(ctx, p, fmt.Sprintf("genre %q", genre), func(ctx context.Context, opts store.ListOptions) ([]*domain.Game, error) {
		return s.games.GamesWithGenre(ctx, genre, opts)
	})
}

// GamesByPublisher pages the games released by the named publisher.
func (s *GameService) GamesByPublisher(ctx context.Context, publisher string, p pagination.Params) (*GamePage, error) {
	return s.paginate(ctx, p, fmt.Sprintf("publisher %q", publisher), func(ctx context.Context, opts store.ListOptions) ([]*domain.Game, error) {
		return s.games.GamesByPublisher(ctx, publisher, opts)
	})
}

// Browse dispatches on sortBy. Ascending false reverses the chosen order.
func (s *GameService) Browse(ctx context.Context, sortBy string, ascending bool, page, count int) (*GamePage, error) {
	p := pagination.Params{Page: page, PerPage: count, Reverse: !ascending}

	switch sortBy {
	case SortDefault, "":
		return s.ListGames(ctx, p)
	case SortTitle:
		return s.GamesSortedAlphabetically(ctx, p)
	case SortReleaseDate:
		return s.GamesSortedByDate(ctx, p)
	default:
		return nil, domainerrors.Validationf("sort_by must be one of: %s", strings.Join(SortOptions, ", "))
	}
}

func (s *GameService) paginate(ctx context.Context, p pagination.Params, subject string, fetch pagination.Fetch[*domain.Game]) (*GamePage, error) {
	page, err := pagination.Paginate(ctx, p, fetch)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("game listing failed", "subject", subject, "page", p.Page, "error", err)
		}
		return nil, translate(err, subject)
	}
	return page, nil
}
