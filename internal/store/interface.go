// Package store defines the persistence contracts for the game catalog.
//
// Two variants implement every contract: an in-memory store loaded from CSV
// files (package memory) and a relational store backed by SQLite (package
// sqlite). Callers hold a Repositories bundle and never branch on the variant.
package store

import (
	"context"

	"github.com/j0yzhu/GameWebApp/internal/domain"
)

// GameRepository stores games together with the genres and publishers they reference.
type GameRepository interface {
	// Lookups return ErrNotFound when the entity does not exist.
	GetGame(ctx context.Context, id int) (*domain.Game, error)
	GetGenre(ctx context.Context, name string) (domain.Genre, error)
	GetPublisher(ctx context.Context, name string) (domain.Publisher, error)

	NumberOfGames(ctx context.Context) (int, error)

	// AddGame adds any of the game's genres and publisher not yet stored.
	// It returns ErrAlreadyExists when a game with the same ID exists.
	AddGame(ctx context.Context, game *domain.Game) error
	AddGenre(ctx context.Context, genre domain.Genre) error
	AddPublisher(ctx context.Context, publisher domain.Publisher) error

	// Genres and Publishers are sorted by name.
	Genres(ctx context.Context) ([]domain.Genre, error)
	Publishers(ctx context.Context) ([]domain.Publisher, error)

	// Games lists in ID order.
	Games(ctx context.Context, opts ListOptions) ([]*domain.Game, error)
	// GamesSortedAlphabetically orders by case-folded title, then ID.
	GamesSortedAlphabetically(ctx context.Context, opts ListOptions) ([]*domain.Game, error)
	// GamesSortedByDate orders dated games oldest first (newest first when
	// reversed), then ID in the same direction. Undated games always come
	// last, by ascending ID.
	GamesSortedByDate(ctx context.Context, opts ListOptions) ([]*domain.Game, error)
	SearchGames(ctx context.Context, term string, opts ListOptions) ([]*domain.Game, error)
	// GamesWithGenre and GamesByPublisher return ErrNotFound when the genre or
	// publisher does not exist, and list matching games in ID order otherwise.
	GamesWithGenre(ctx context.Context, genre string, opts ListOptions) ([]*domain.Game, error)
	GamesByPublisher(ctx context.Context, publisher string, opts ListOptions) ([]*domain.Game, error)
}

// UserRepository stores accounts keyed by username.
type UserRepository interface {
	GetUser(ctx context.Context, username string) (*domain.User, error)
	// Users lists accounts ordered by username.
	Users(ctx context.Context, opts ListOptions) ([]*domain.User, error)
	NumberOfUsers(ctx context.Context) (int, error)
	AddUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, username string) error
}

// ReviewRepository stores reviews. Listings are in insertion order.
type ReviewRepository interface {
	ReviewsByUser(ctx context.Context, username string) ([]*domain.Review, error)
	ReviewsForGame(ctx context.Context, gameID int) ([]*domain.Review, error)
	// AddReview returns ErrAlreadyExists for a repeated (user, game, comment).
	AddReview(ctx context.Context, review *domain.Review) error
}

// WishlistRepository stores wishes. Listings are ordered by wish time.
type WishlistRepository interface {
	WishlistByUser(ctx context.Context, username string) ([]*domain.Wish, error)
	WishlistByGame(ctx context.Context, gameID int) ([]*domain.Wish, error)
	// AddWish returns ErrAlreadyExists for a repeated (user, game).
	AddWish(ctx context.Context, wish *domain.Wish) error
	// RemoveWish returns ErrNotFound when the user has not wished for the game.
	RemoveWish(ctx context.Context, username string, gameID int) error
}

// Repositories bundles one variant of every repository.
type Repositories struct {
	Games    GameRepository
	Users    UserRepository
	Reviews  ReviewRepository
	Wishlist WishlistRepository

	// Close releases resources held by the variant. It may be nil.
	Close func() error
}

// Shutdown closes the underlying variant.
func (r *Repositories) Shutdown() error {
	if r.Close == nil {
		return nil
	}
	return r.Close()
}

// Pinger is implemented by variants that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
