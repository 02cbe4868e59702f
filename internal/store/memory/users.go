package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/j0yzhu/GameWebApp/internal/domain"
	"github.com/j0yzhu/GameWebApp/internal/store"
)

// UserRepository holds accounts keyed by username.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]UserDTO

	// onDelete runs after a user is removed, outside the lock.
	onDelete []func(username string)
}

var _ store.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]UserDTO)}
}

func (r *UserRepository) GetUser(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, ok := r.users[username]
	if !ok {
		return nil, store.ErrNotFound.WithMessagef("user %q does not exist", username)
	}
	return dto.toUser(), nil
}

func (r *UserRepository) Users(_ context.Context, opts store.ListOptions) ([]*domain.User, error) {
	r.mu.RLock()
	dtos := make([]UserDTO, 0, len(r.users))
	for _, dto := range r.users {
		dtos = append(dtos, dto)
	}
	r.mu.RUnlock()

	slices.SortFunc(dtos, func(a, b UserDTO) int { return strings.Compare(a.Username, b.Username) })

	users := make([]*domain.User, 0, len(dtos))
	for _, dto := range window(dtos, opts) {
		users = append(users, dto.toUser())
	}
	return users, nil
}

func (r *UserRepository) NumberOfUsers(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *UserRepository) AddUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return store.ErrAlreadyExists.WithMessagef("user %q already exists", user.Username)
	}
	r.users[user.Username] = newUserDTO(user)
	return nil
}

// DeleteUser removes the account and everything registered with OnDelete
// forgets the user's reviews and wishes.
func (r *UserRepository) DeleteUser(_ context.Context, username string) error {
	r.mu.Lock()
	if _, exists := r.users[username]; !exists {
		r.mu.Unlock()
		return store.ErrNotFound.WithMessagef("user %q does not exist", username)
	}
	delete(r.users, username)
	hooks := r.onDelete
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(username)
	}
	return nil
}

// OnDelete registers fn to run whenever a user is deleted.
func (r *UserRepository) OnDelete(fn func(username string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = append(r.onDelete, fn)
}
