package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// reviewQuery selects reviews with their author and game. Callers append a
// WHERE clause; rows come back in insertion order.
const reviewQuery = `
	SELECT r.rating, r.comment, u.username, u.password, ` + gameColumns + `
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN games g ON g.id = r.game_id`

func (s *Store) ReviewsByUser(ctx context.Context, username string) ([]*domain.Review, error) {
	return s.queryReviews(ctx, `WHERE u.username = ?`, username)
}

func (s *Store) ReviewsForGame(ctx context.Context, gameID int) ([]*domain.Review, error) {
	return s.queryReviews(ctx, `WHERE r.game_id = ?`, gameID)
}

func (s *Store) queryReviews(ctx context.Context, where string, args ...any) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, reviewQuery+` `+where+` ORDER BY r.id`, args...)
		if err != nil {
			return fmt.Errorf("query reviews: %w", err)
		}

		var games []*domain.Game
		for rows.Next() {
			var (
				r    domain.Review
				user domain.User
			)
			game, err := scanGame(scanFunc(func(dest ...any) error {
				return rows.Scan(append([]any{&r.Rating, &r.Comment, &user.Username, &user.PasswordHash}, dest...)...)
			}))
			if err != nil {
				rows.Close()
				return fmt.Errorf("scan review: %w", err)
			}
			r.User = &user
			r.Game = game
			reviews = append(reviews, &r)
			games = append(games, game)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		return attachGenres(ctx, tx, games)
	})
	return reviews, err
}

func (s *Store) AddReview(ctx context.Context, review *domain.Review) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		uid, err := userID(ctx, tx, review.User.Username)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO reviews (user_id, game_id, rating, comment) VALUES (?, ?, ?, ?)`,
			uid, review.Game.ID, review.Rating, review.Comment)
		switch {
		case isUniqueViolation(err):
			return store.ErrAlreadyExists.WithMessagef(
				"review by %q on game %d with that comment already exists", review.User.Username, review.Game.ID)
		case isForeignKeyViolation(err):
			return store.ErrNotFound.WithMessagef("game with id %d does not exist", review.Game.ID)
		case err != nil:
			return fmt.Errorf("insert review: %w", err)
		}
		return nil
	})
}

// scanFunc adapts a function to the scanner interface used by scanGame.
type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }
