package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// WishlistRepository holds wishes, listed by wish time.
type WishlistRepository struct {
	mu     sync.RWMutex
	wishes []WishDTO
	users  store.UserRepository
	games  store.GameRepository
}

var _ store.WishlistRepository = (*WishlistRepository)(nil)

// NewWishlistRepository creates an empty wishlist repository.
func NewWishlistRepository(users store.UserRepository, games store.GameRepository) *WishlistRepository {
	return &WishlistRepository{users: users, games: games}
}

func (r *WishlistRepository) WishlistByUser(ctx context.Context, username string) ([]*domain.Wish, error) {
	return r.collect(ctx, func(d WishDTO) bool { return d.Username == username })
}

func (r *WishlistRepository) WishlistByGame(ctx context.Context, gameID int) ([]*domain.Wish, error) {
	return r.collect(ctx, func(d WishDTO) bool { return d.GameID == gameID })
}

// AddWish returns ErrNotFound when the user or the game is not stored.
func (r *WishlistRepository) AddWish(ctx context.Context, wish *domain.Wish) error {
	dto := newWishDTO(wish)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, err := resolve(ctx, r.users, r.games, dto.Username, dto.GameID); err != nil {
		return err
	}

	if r.indexOf(dto.Username, dto.GameID) >= 0 {
		return store.ErrAlreadyExists.WithMessagef("game %d is already on the wishlist of %q", dto.GameID, dto.Username)
	}
	r.wishes = append(r.wishes, dto)
	return nil
}

func (r *WishlistRepository) RemoveWish(_ context.Context, username string, gameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(username, gameID)
	if i < 0 {
		return store.ErrNotFound.WithMessagef("game %d is not on the wishlist of %q", gameID, username)
	}
	r.wishes = slices.Delete(r.wishes, i, i+1)
	return nil
}

// purgeUser drops every wish made by username.
func (r *WishlistRepository) purgeUser(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wishes = slices.DeleteFunc(r.wishes, func(d WishDTO) bool { return d.Username == username })
}

// indexOf must be called with the lock held.
func (r *WishlistRepository) indexOf(username string, gameID int) int {
	return slices.IndexFunc(r.wishes, func(d WishDTO) bool {
		return d.Username == username && d.GameID == gameID
	})
}

func (r *WishlistRepository) collect(ctx context.Context, keep func(WishDTO) bool) ([]*domain.Wish, error) {
	r.mu.RLock()
	var matched []WishDTO
	for _, dto := range r.wishes {
		if keep(dto) {
			matched = append(matched, dto)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b WishDTO) int { return a.WishTime.Compare(b.WishTime) })

	wishes := make([]*domain.Wish, 0, len(matched))
	for _, dto := range matched {
		user, game, err := resolve(ctx, r.users, r.games, dto.Username, dto.GameID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		wishes = append(wishes, &domain.Wish{User: user, Game: game, WishTime: dto.WishTime})
	}
	return wishes, nil
}
