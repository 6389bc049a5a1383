package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"dog-walk-service/internal/domain/dogs"
)

type dogsRepo struct {
	s *Store
}

func NewDogsRepo(s *Store) dogs.Repository {
	return &dogsRepo{s: s}
}

func (r *dogsRepo) Create(_ context.Context, d dogs.Dog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.s.dogs[d.ID]; exists {
		return errors.New("dog already exists")
	}
	r.s.dogs[d.ID] = d
	return nil
}

func (r *dogsRepo) GetByID(_ context.Context, id string) (dogs.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.dogs[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

func (r *dogsRepo) ListByOwner(_ context.Context, ownerID string) ([]dogs.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]dogs.Dog, 0)
	for _, d := range r.s.dogs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *dogsRepo) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.dogs[id]
	if !ok || d.OwnerID != ownerID {
		return dogs.ErrNotFound
	}
	r.s.deleteDogCascade(id)
	return nil
}
