package dogs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("dog not found")

type Repository interface {
	Create(ctx context.Context, d Dog) error
	GetByID(ctx context.Context, id string) (Dog, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Dog, error)
	// Delete borra solo si el perro es del owner; si no, ErrNotFound.
	Delete(ctx context.Context, id, ownerID string) error
}
