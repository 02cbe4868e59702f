package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

func (s *Store) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT username, password FROM users WHERE username = ?`, username,
		).Scan(&user.Username, &user.PasswordHash)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound.WithMessagef("user %q does not exist", username)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Users(ctx context.Context, opts store.ListOptions) ([]*domain.User, error) {
	users := []*domain.User{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT username, password FROM users ORDER BY username `+direction(opts)+` LIMIT ? OFFSET ?`,
			limit(opts), offset(opts))
		if err != nil {
			return fmt.Errorf("query users: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var u domain.User
			if err := rows.Scan(&u.Username, &u.PasswordHash); err != nil {
				return fmt.Errorf("scan user: %w", err)
			}
			users = append(users, &u)
		}
		return rows.Err()
	})
	return users, err
}

func (s *Store) NumberOfUsers(ctx context.Context) (int, error) {
	var n int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	})
	return n, err
}

func (s *Store) AddUser(ctx context.Context, user *domain.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password) VALUES (?, ?)`, user.Username, user.PasswordHash)
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessagef("user %q already exists", user.Username)
		}
		return err
	})
}

// DeleteUser removes the user together with their reviews and wishes.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound.WithMessagef("user %q does not exist", username)
		}
		return nil
	})
}

// userID looks up the row id for username.
func userID(ctx context.Context, q querier, username string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound.WithMessagef("user %q does not exist", username)
	}
	return id, err
}
