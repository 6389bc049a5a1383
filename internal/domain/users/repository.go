package users

import (
	"context"
	"errors"
	"time"
)

// Errores que devuelven los adapters de storage.
var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("duplicate user")
)

type Repository interface {
	// Create devuelve ErrDuplicate si username o email ya existen.
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByLogin busca por username o email.
	GetByLogin(ctx context.Context, identifier string) (User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string, at time.Time) error
}
