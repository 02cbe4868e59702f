// Package memory implements the store contracts over in-process collections.
// It is populated once at startup from the CSV data files.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// GameRepository holds games, genres and publishers.
type GameRepository struct {
	mu         sync.RWMutex
	games      map[int]*domain.Game
	genres     map[string]domain.Genre
	publishers map[string]domain.Publisher
}

var _ store.GameRepository = (*GameRepository)(nil)

// NewGameRepository creates an empty game repository.
func NewGameRepository() *GameRepository {
	return &GameRepository{
		games:      make(map[int]*domain.Game),
		genres:     make(map[string]domain.Genre),
		publishers: make(map[string]domain.Publisher),
	}
}

func (r *GameRepository) GetGame(_ context.Context, id int) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id]
	if !ok {
		return nil, store.ErrNotFound.WithMessagef("game with id %d does not exist", id)
	}
	return game, nil
}

func (r *GameRepository) GetGenre(_ context.Context, name string) (domain.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	genre, ok := r.genres[name]
	if !ok {
		return domain.Genre{}, store.ErrNotFound.WithMessagef("genre %q does not exist", name)
	}
	return genre, nil
}

func (r *GameRepository) GetPublisher(_ context.Context, name string) (domain.Publisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	publisher, ok := r.publishers[name]
	if !ok {
		return domain.Publisher{}, store.ErrNotFound.WithMessagef("publisher %q does not exist", name)
	}
	return publisher, nil
}

func (r *GameRepository) NumberOfGames(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games), nil
}

func (r *GameRepository) AddGame(_ context.Context, game *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[game.ID]; exists {
		return store.ErrAlreadyExists.WithMessagef("game with id %d already exists", game.ID)
	}
	r.games[game.ID] = game

	for _, genre := range game.Genres {
		r.genres[genre.Name] = genre
	}
	if game.Publisher != nil {
		r.publishers[game.Publisher.Name] = *game.Publisher
	}
	return nil
}

func (r *GameRepository) AddGenre(_ context.Context, genre domain.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.genres[genre.Name]; exists {
		return store.ErrAlreadyExists.WithMessagef("genre %q already exists", genre.Name)
	}
	r.genres[genre.Name] = genre
	return nil
}

func (r *GameRepository) AddPublisher(_ context.Context, publisher domain.Publisher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.publishers[publisher.Name]; exists {
		return store.ErrAlreadyExists.WithMessagef("publisher %q already exists", publisher.Name)
	}
	r.publishers[publisher.Name] = publisher
	return nil
}

func (r *GameRepository) Genres(_ context.Context) ([]domain.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	genres := make([]domain.Genre, 0, len(r.genres))
	for _, g := range r.genres {
		genres = append(genres, g)
	}
	slices.SortFunc(genres, domain.CompareGenres)
	return genres, nil
}

func (r *GameRepository) Publishers(_ context.Context) ([]domain.Publisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	publishers := make([]domain.Publisher, 0, len(r.publishers))
	for _, p := range r.publishers {
		publishers = append(publishers, p)
	}
	slices.SortFunc(publishers, domain.ComparePublishers)
	return publishers, nil
}

func (r *GameRepository) Games(_ context.Context, opts store.ListOptions) ([]*domain.Game, error) {
	games := r.snapshot(nil)
	return window(games, opts), nil
}

func (r *GameRepository) GamesSortedAlphabetically(_ context.Context, opts store.ListOptions) ([]*domain.Game, error) {
	games := r.snapshot(nil)
	slices.SortStableFunc(games, compareTitles)
	return window(games, opts), nil
}

func (r *GameRepository) GamesSortedByDate(_ context.Context, opts store.ListOptions) ([]*domain.Game, error) {
	type entry struct {
		game *domain.Game
		at   time.Time
	}

	var dated []entry
	var undated []*domain.Game
	for _, g := range r.snapshot(nil) {
		if at, ok := g.ReleaseTime(); ok {
			dated = append(dated, entry{game: g, at: at})
		} else {
			undated = append(undated, g)
		}
	}

	slices.SortStableFunc(dated, func(a, b entry) int {
		c := a.at.Compare(b.at)
		if c == 0 {
			c = domain.CompareGames(a.game, b.game)
		}
		if opts.Reverse {
			return -c
		}
		return c
	})

	games := make([]*domain.Game, 0, len(dated)+len(undated))
	for _, e := range dated {
		games = append(games, e.game)
	}
	games = append(games, undated...)

	return store.Apply(games, opts), nil
}

func (r *GameRepository) SearchGames(_ context.Context, term string, opts store.ListOptions) ([]*domain.Game, error) {
	type scored struct {
		game  *domain.Game
		score int
	}

	games := r.snapshot(nil)
	results := make([]scored, len(games))
	for i, g := range games {
		results[i] = scored{game: g, score: TokenSortRatio(g.Title, term)}
	}

	// Best match first; equal scores put the higher ID first.
	slices.SortFunc(results, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return domain.CompareGames(b.game, a.game)
	})

	ranked := make([]*domain.Game, len(results))
	for i, s := range results {
		ranked[i] = s.game
	}
	return window(ranked, opts), nil
}

func (r *GameRepository) GamesWithGenre(ctx context.Context, genre string, opts store.ListOptions) ([]*domain.Game, error) {
	if _, err := r.GetGenre(ctx, genre); err != nil {
		return nil, err
	}
	games := r.snapshot(func(g *domain.Game) bool { return g.HasGenre(genre) })
	return window(games, opts), nil
}

func (r *GameRepository) GamesByPublisher(ctx context.Context, publisher string, opts store.ListOptions) ([]*domain.Game, error) {
	if _, err := r.GetPublisher(ctx, publisher); err != nil {
		return nil, err
	}
	games := r.snapshot(func(g *domain.Game) bool { return g.PublishedBy(publisher) })
	return window(games, opts), nil
}

// snapshot copies the games matching keep (all when nil) in ID order.
func (r *GameRepository) snapshot(keep func(*domain.Game) bool) []*domain.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]*domain.Game, 0, len(r.games))
	for _, g := range r.games {
		if keep == nil || keep(g) {
			games = append(games, g)
		}
	}
	slices.SortFunc(games, domain.CompareGames)
	return games
}

func compareTitles(a, b *domain.Game) int {
	if c := strings.Compare(a.TitleKey(), b.TitleKey()); c != 0 {
		return c
	}
	return domain.CompareGames(a, b)
}

// window reverses an ordered listing when asked and then applies the offset and limit.
func window[T any](items []T, opts store.ListOptions) []T {
	if opts.Reverse {
		slices.Reverse(items)
	}
	return store.Apply(items, opts)
}
