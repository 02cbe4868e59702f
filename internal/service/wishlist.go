package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// WishlistService manages the games users want.
type WishlistService struct {
	wishlist store.WishlistRepository
	users    store.UserRepository
	games    store.GameRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repos *store.Repositories, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		wishlist: repos.Wishlist,
		users:    repos.Users,
		games:    repos.Games,
		logger:   logger,
		now:      time.Now,
	}
}

// AddWish puts the game on the user's wishlist.
func (s *WishlistService) AddWish(ctx context.Context, username string, gameID int) (*domain.Wish, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, translate(err, "user "+username)
	}
	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("game %d", gameID))
	}

	wish, err := domain.NewWish(user, game, s.now())
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.wishlist.AddWish(ctx, wish); err != nil {
		return nil, translate(err, fmt.Sprintf("wish for game %d", gameID))
	}

	if s.logger != nil {
		s.logger.Info("wish added", "username", username, "game_id", gameID)
	}
	return wish, nil
}

// RemoveWish takes the game off the user's wishlist.
func (s *WishlistService) RemoveWish(ctx context.Context, username string, gameID int) error {
	if err := s.wishlist.RemoveWish(ctx, username, gameID); err != nil {
		return translate(err, fmt.Sprintf("wish for game %d", gameID))
	}

	if s.logger != nil {
		s.logger.Info("wish removed", "username", username, "game_id", gameID)
	}
	return nil
}

// WishesByUser lists a user's wishlist, oldest wish first.
func (s *WishlistService) WishesByUser(ctx context.Context, username string) ([]*domain.Wish, error) {
	if _, err := s.users.GetUser(ctx, username); err != nil {
		return nil, translate(err, "user "+username)
	}
	wishes, err := s.wishlist.WishlistByUser(ctx, username)
	if err != nil {
		return nil, translate(err, "wishlist")
	}
	return wishes, nil
}

// WishesByGame lists who wants a game, oldest wish first.
func (s *WishlistService) WishesByGame(ctx context.Context, gameID int) ([]*domain.Wish, error) {
	wishes, err := s.wishlist.WishlistByGame(ctx, gameID)
	if err != nil {
		return nil, translate(err, "wishlist")
	}
	return wishes, nil
}

// HasWishlisted reports whether the game is on the user's wishlist.
func (s *WishlistService) HasWishlisted(ctx context.Context, username string, gameID int) (bool, error) {
	wishes, err := s.wishlist.WishlistByUser(ctx, username)
	if err != nil {
		return false, translate(err, "wishlist")
	}
	for _, w := range wishes {
		if w.Game.ID == gameID {
			return true, nil
		}
	}
	return false, nil
}
