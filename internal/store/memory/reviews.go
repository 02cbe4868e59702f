package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// ReviewRepository keeps reviews in insertion order.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []ReviewDTO
	users   store.UserRepository
	games   store.GameRepository
}

var _ store.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates an empty review repository that resolves
// authors and games through the given repositories.
func NewReviewRepository(users store.UserRepository, games store.GameRepository) *ReviewRepository {
	return &ReviewRepository{users: users, games: games}
}

func (r *ReviewRepository) ReviewsByUser(ctx context.Context, username string) ([]*domain.Review, error) {
	return r.collect(ctx, func(d ReviewDTO) bool { return d.Username == username })
}

func (r *ReviewRepository) ReviewsForGame(ctx context.Context, gameID int) ([]*domain.Review, error) {
	return r.collect(ctx, func(d ReviewDTO) bool { return d.GameID == gameID })
}

// AddReview returns ErrNotFound when the author or the game is not stored.
func (r *ReviewRepository) AddReview(ctx context.Context, review *domain.Review) error {
	dto := newReviewDTO(review)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, err := resolve(ctx, r.users, r.games, dto.Username, dto.GameID); err != nil {
		return err
	}

	for _, existing := range r.reviews {
		if existing.sameAs(dto) {
			return store.ErrAlreadyExists.WithMessagef(
				"review by %q on game %d with that comment already exists", dto.Username, dto.GameID)
		}
	}
	r.reviews = append(r.reviews, dto)
	return nil
}

// purgeUser drops every review written by username.
func (r *ReviewRepository) purgeUser(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = slices.DeleteFunc(r.reviews, func(d ReviewDTO) bool { return d.Username == username })
}

func (r *ReviewRepository) collect(ctx context.Context, keep func(ReviewDTO) bool) ([]*domain.Review, error) {
	r.mu.RLock()
	var matched []ReviewDTO
	for _, dto := range r.reviews {
		if keep(dto) {
			matched = append(matched, dto)
		}
	}
	r.mu.RUnlock()

	reviews := make([]*domain.Review, 0, len(matched))
	for _, dto := range matched {
		user, game, err := resolve(ctx, r.users, r.games, dto.Username, dto.GameID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &domain.Review{
			User:    user,
			Game:    game,
			Rating:  dto.Rating,
			Comment: dto.Comment,
		})
	}
	return reviews, nil
}

// resolve turns stored identities back into live domain objects.
func resolve(ctx context.Context, users store.UserRepository, games store.GameRepository, username string, gameID int) (*domain.User, *domain.Game, error) {
	user, err := users.GetUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	game, err := games.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return user, game, nil
}
