package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/domain"
	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
	"github.com/j0yzhu/GameWebApp/internal/pagination"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// authFailedMessage is shared by every login failure so callers cannot tell
// an unknown username from a wrong password.
const authFailedMessage = "invalid username or password"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) bool
}

// timingPassword is hashed once; logins naming an unknown user verify
// against that hash.
const timingPassword = "not-a-real-password"

// UserService manages accounts and credentials.
type UserService struct {
	users  store.UserRepository
	hasher PasswordHasher
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new user service.
func NewUserService(users store.UserRepository, hasher PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// GetUser returns the account with the given username.
func (s *UserService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, translate(err, "user "+username)
	}
	return user, nil
}

// NumberOfUsers counts accounts.
func (s *UserService) NumberOfUsers(ctx context.Context) (int, error) {
	n, err := s.users.NumberOfUsers(ctx)
	if err != nil {
		return 0, translate(err, "users")
	}
	return n, nil
}

// ListUsers pages accounts by username with the total attached.
func (s *UserService) ListUsers(ctx context.Context, p pagination.Params) (*pagination.Page[*domain.User], error) {
	page, err := pagination.Paginate(ctx, p, s.users.Users)
	if err != nil {
		return nil, translate(err, "users")
	}
	total, err := s.NumberOfUsers(ctx)
	if err != nil {
		return nil, err
	}
	return page.WithTotal(total), nil
}

// AddUser registers an account. The password is hashed before it reaches
// the repository.
func (s *UserService) AddUser(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, err.Error())
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash password")
	}

	user, err := domain.NewUser(username, hash)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.users.AddUser(ctx, user); err != nil {
		return nil, translate(err, "user "+user.Username)
	}

	if s.logger != nil {
		s.logger.Info("user registered", "username", user.Username)
	}
	return user, nil
}

// DeleteUser removes an account along with its reviews and wishes.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.users.DeleteUser(ctx, username); err != nil {
		return translate(err, "user "+username)
	}

	if s.logger != nil {
		s.logger.Info("user deleted", "username", username)
	}
	return nil
}

// Authenticate checks credentials. Unknown users and wrong passwords fail
// with the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(s.timingHash(), password)
			return nil, domainerrors.InvalidCredentials(authFailedMessage)
		}
		return nil, translate(err, "user "+username)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		if s.logger != nil {
			s.logger.Debug("password mismatch", "username", username)
		}
		return nil, domainerrors.InvalidCredentials(authFailedMessage)
	}
	return user, nil
}

func (s *UserService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(timingPassword)
		if err != nil && s.logger != nil {
			s.logger.Warn("hash timing password", "error", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
