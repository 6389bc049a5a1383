package memory

import (
	"context"
	"strings"
	"time"

	"dog-walk-service/internal/domain/users"
)

type usersRepo struct {
	s *Store
}

func NewUsersRepo(s *Store) users.Repository {
	return &usersRepo{s: s}
}

func (r *usersRepo) Create(_ context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.ID == u.ID || existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return users.ErrDuplicate
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByLogin(_ context.Context, identifier string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == identifier || strings.EqualFold(u.Email, identifier) {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *usersRepo) UpdatePassword(_ context.Context, username, hash string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if u.Username != username {
			continue
		}
		u.PasswordHash = hash
		u.UpdatedAt = at
		r.s.users[id] = u
		return nil
	}
	return users.ErrNotFound
}
