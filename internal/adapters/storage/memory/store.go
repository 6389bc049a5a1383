package memory

import (
	"maps"
	"sync"

	"dog-walk-service/internal/domain/dogs"
	"dog-walk-service/internal/domain/users"
	"dog-walk-service/internal/domain/walks"
)

// Store es el estado in-memory compartido por los repos, para que las
// "joins" (dueño del perro, username del walker) funcionen igual que en SQL.
// Un único mutex cubre todo; WithinTx lo toma en exclusiva.
type Store struct {
	mu sync.RWMutex

	users map[string]users.User
	dogs  map[string]dogs.Dog

	requests     map[string]walks.WalkRequest
	applications map[string]walks.WalkApplication
	ratings      map[string]walks.WalkRating // por request_id
	events       []walks.WalkEvent
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]users.User),
		dogs:         make(map[string]dogs.Dog),
		requests:     make(map[string]walks.WalkRequest),
		applications: make(map[string]walks.WalkApplication),
		ratings:      make(map[string]walks.WalkRating),
	}
}

type walksSnapshot struct {
	requests     map[string]walks.WalkRequest
	applications map[string]walks.WalkApplication
	ratings      map[string]walks.WalkRating
	events       int
}

// snapshot y restore requieren s.mu tomado.
func (s *Store) snapshot() walksSnapshot {
	return walksSnapshot{
		requests:     maps.Clone(s.requests),
		applications: maps.Clone(s.applications),
		ratings:      maps.Clone(s.ratings),
		events:       len(s.events),
	}
}

func (s *Store) restore(snap walksSnapshot) {
	s.requests = snap.requests
	s.applications = snap.applications
	s.ratings = snap.ratings
	s.events = s.events[:snap.events]
}

// deleteDogCascade replica el ON DELETE CASCADE de Postgres. Requiere s.mu tomado.
func (s *Store) deleteDogCascade(dogID string) {
	delete(s.dogs, dogID)
	for id, r := range s.requests {
		if r.DogID != dogID {
			continue
		}
		delete(s.requests, id)
		delete(s.ratings, id)
		for appID, a := range s.applications {
			if a.RequestID == id {
				delete(s.applications, appID)
			}
		}
		kept := s.events[:0]
		for _, e := range s.events {
			if e.RequestID != id {
				kept = append(kept, e)
			}
		}
		s.events = kept
	}
}
