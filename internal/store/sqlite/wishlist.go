package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

const wishQuery = `
	SELECT w.date_added, u.username, u.password, ` + gameColumns + `
	FROM wish w
	JOIN users u ON u.id = w.user_id
	JOIN games g ON g.id = w.game_id`

func (s *Store) WishlistByUser(ctx context.Context, username string) ([]*domain.Wish, error) {
	return s.queryWishes(ctx, `WHERE u.username = ?`, username)
}

func (s *Store) WishlistByGame(ctx context.Context, gameID int) ([]*domain.Wish, error) {
	return s.queryWishes(ctx, `WHERE w.game_id = ?`, gameID)
}

func (s *Store) queryWishes(ctx context.Context, where string, args ...any) ([]*domain.Wish, error) {
	wishes := []*domain.Wish{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, wishQuery+` `+where+` ORDER BY w.date_added, w.id`, args...)
		if err != nil {
			return fmt.Errorf("query wishes: %w", err)
		}

		var games []*domain.Game
		for rows.Next() {
			var (
				added string
				user  domain.User
			)
			game, err := scanGame(scanFunc(func(dest ...any) error {
				return rows.Scan(append([]any{&added, &user.Username, &user.PasswordHash}, dest...)...)
			}))
			if err != nil {
				rows.Close()
				return fmt.Errorf("scan wish: %w", err)
			}
			at, err := parseTime(added)
			if err != nil {
				rows.Close()
				return fmt.Errorf("parse wish time: %w", err)
			}
			wishes = append(wishes, &domain.Wish{User: &user, Game: game, WishTime: at})
			games = append(games, game)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		return attachGenres(ctx, tx, games)
	})
	return wishes, err
}

func (s *Store) AddWish(ctx context.Context, wish *domain.Wish) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		uid, err := userID(ctx, tx, wish.User.Username)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO wish (user_id, game_id, date_added) VALUES (?, ?, ?)`,
			uid, wish.Game.ID, formatTime(wish.WishTime))
		switch {
		case isUniqueViolation(err):
			return store.ErrAlreadyExists.WithMessagef(
				"game %d is already on the wishlist of %q", wish.Game.ID, wish.User.Username)
		case isForeignKeyViolation(err):
			return store.ErrNotFound.WithMessagef("game with id %d does not exist", wish.Game.ID)
		case err != nil:
			return fmt.Errorf("insert wish: %w", err)
		}
		return nil
	})
}

func (s *Store) RemoveWish(ctx context.Context, username string, gameID int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			DELETE FROM wish
			WHERE game_id = ? AND user_id = (SELECT id FROM users WHERE username = ?)`,
			gameID, username)
		if err != nil {
			return fmt.Errorf("delete wish: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound.WithMessagef("game %d is not on the wishlist of %q", gameID, username)
		}
		return nil
	})
}
