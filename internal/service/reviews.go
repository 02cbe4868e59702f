package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// ReviewService records and summarises reviews.
type ReviewService struct {
	reviews store.ReviewRepository
	users   store.UserRepository
	games   store.GameRepository
	logger  *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repos *store.Repositories, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews: repos.Reviews,
		users:   repos.Users,
		games:   repos.Games,
		logger:  logger,
	}
}

// ReviewsByUser lists a user's reviews in the order they were written.
func (s *ReviewService) ReviewsByUser(ctx context.Context, username string) ([]*domain.Review, error) {
	if _, err := s.users.GetUser(ctx, username); err != nil {
		return nil, translate(err, "user "+username)
	}
	reviews, err := s.reviews.ReviewsByUser(ctx, username)
	if err != nil {
		return nil, translate(err, "reviews")
	}
	return reviews, nil
}

// ReviewsForGame lists a game's reviews, highest rating first. Equal ratings
// keep the order they were written in.
func (s *ReviewService) ReviewsForGame(ctx context.Context, gameID int) ([]*domain.Review, error) {
	reviews, err := s.reviews.ReviewsForGame(ctx, gameID)
	if err != nil {
		return nil, translate(err, "reviews")
	}
	slices.SortStableFunc(reviews, func(a, b *domain.Review) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return reviews, nil
}

// AddReview records a review by username on the game.
func (s *ReviewService) AddReview(ctx context.Context, username string, gameID, rating int, comment string) (*domain.Review, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, translate(err, "user "+username)
	}
	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("game %d", gameID))
	}

	review, err := domain.NewReview(user, game, rating, comment)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.reviews.AddReview(ctx, review); err != nil {
		return nil, translate(err, "review")
	}

	if s.logger != nil {
		s.logger.Info("review added", "username", username, "game_id", gameID, "rating", rating)
	}
	return review, nil
}

// AverageRating is the mean rating of a game rounded to one decimal place.
// The second result is false when the game has no reviews.
func (s *ReviewService) AverageRating(ctx context.Context, gameID int) (float64, bool, error) {
	reviews, err := s.reviews.ReviewsForGame(ctx, gameID)
	if err != nil {
		return 0, false, translate(err, "reviews")
	}
	avg, ok := averageRating(reviews)
	return avg, ok, nil
}

func averageRating(reviews []*domain.Review) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10, true
}
