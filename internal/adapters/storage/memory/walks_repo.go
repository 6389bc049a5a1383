package memory

import (
	"context"
	"errors"
	"iter"
	"sort"
	"strings"
	"time"

	"dog-walk-service/internal/domain/walks"
)

type walksRepo struct {
	s *Store
}

func NewWalksRepo(s *Store) walks.Repository {
	return &walksRepo{s: s}
}

// WithinTx serializa la unidad de trabajo con el lock exclusivo del Store
// y restaura el snapshot si fn falla.
func (r *walksRepo) WithinTx(ctx context.Context, fn func(tx walks.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	committed := false
	defer func() {
		if !committed {
			r.s.restore(snap)
		}
	}()

	if err := fn(&walksTx{s: r.s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *walksRepo) GetRequest(_ context.Context, id string) (walks.WalkRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.request(id)
}

func (r *walksRepo) ListApplications(_ context.Context, requestID string) ([]walks.WalkApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.applicationsOf(requestID), nil
}

func (r *walksRepo) ListByOwner(_ context.Context, ownerID string) ([]walks.OwnerRequestView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]walks.OwnerRequestView, 0)
	for id := range r.s.requests {
		req, err := r.s.request(id)
		if err != nil || req.OwnerID != ownerID {
			continue
		}
		dog := r.s.dogs[req.DogID]

		v := walks.OwnerRequestView{
			Request:     req,
			DogName:     dog.Name,
			DogImageURL: dog.ImageURL,
			Applicants:  make([]walks.Applicant, 0),
		}
		for _, a := range r.s.applicationsOf(id) {
			v.Applicants = append(v.Applicants, walks.Applicant{
				ApplicationID: a.ID,
				WalkerID:      a.WalkerID,
				Username:      r.s.users[a.WalkerID].Username,
				Status:        a.Status,
			})
			if req.Status == walks.RequestCompleted && a.Status == walks.ApplicationCompleted {
				v.CompletedWalkerID = a.WalkerID
			}
		}
		_, v.Rated = r.s.ratings[id]
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].Request, out[j].Request)
	})
	return out, nil
}

// ListAvailable materializa la página bajo RLock y la entrega sin el lock,
// para que el consumidor pueda llamar a otros repos mientras itera.
func (r *walksRepo) ListAvailable(ctx context.Context, walkerID string) iter.Seq2[walks.AvailableRequest, error] {
	return func(yield func(walks.AvailableRequest, error) bool) {
		r.s.mu.RLock()
		reqs := make([]walks.WalkRequest, 0, len(r.s.requests))
		for id := range r.s.requests {
			req, err := r.s.request(id)
			if err != nil {
				continue
			}
			reqs = append(reqs, req)
		}
		sort.Slice(reqs, func(i, j int) bool { return newerFirst(reqs[i], reqs[j]) })

		items := make([]walks.AvailableRequest, 0, len(reqs))
		for _, req := range reqs {
			item := walks.AvailableRequest{
				RequestID:       req.ID,
				DogName:         r.s.dogs[req.DogID].Name,
				RequestedAt:     req.RequestedAt,
				DurationMinutes: req.DurationMinutes,
				Location:        req.Location,
				WalkStatus:      req.Status,
			}
			for _, a := range r.s.applications {
				if a.RequestID == req.ID && a.WalkerID == walkerID {
					item.ApplicationStatus = a.Status
					break
				}
			}
			items = append(items, item)
		}
		r.s.mu.RUnlock()

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				yield(walks.AvailableRequest{}, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (r *walksRepo) CountApplications(_ context.Context, walkerID string, st walks.ApplicationStatus) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, a := range r.s.applications {
		if a.WalkerID == walkerID && a.Status == st {
			n++
		}
	}
	return n, nil
}

func (r *walksRepo) ListEvents(_ context.Context, requestID string) ([]walks.WalkEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]walks.WalkEvent, 0)
	for _, e := range r.s.events {
		if e.RequestID == requestID {
			out = append(out, e)
		}
	}
	return out, nil
}

// walksTx opera sobre el Store con el lock exclusivo ya tomado por WithinTx.
type walksTx struct {
	s *Store
}

func (t *walksTx) InsertRequest(_ context.Context, req walks.WalkRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("walk request id required")
	}
	if _, ok := t.s.requests[req.ID]; ok {
		return walks.ErrDuplicate
	}
	if _, ok := t.s.dogs[req.DogID]; !ok {
		return errors.New("walk request references unknown dog")
	}
	req.OwnerID = ""
	t.s.requests[req.ID] = req
	return nil
}

func (t *walksTx) LockRequest(_ context.Context, id string) (walks.WalkRequest, error) {
	return t.s.request(id)
}

func (t *walksTx) LockApplications(_ context.Context, requestID string) ([]walks.WalkApplication, error) {
	return t.s.applicationsOf(requestID), nil
}

func (t *walksTx) InsertApplication(_ context.Context, a walks.WalkApplication) error {
	if _, ok := t.s.requests[a.RequestID]; !ok {
		return walks.ErrNotFound
	}
	for _, existing := range t.s.applications {
		if existing.ID == a.ID || (existing.RequestID == a.RequestID && existing.WalkerID == a.WalkerID) {
			return walks.ErrDuplicate
		}
	}
	t.s.applications[a.ID] = a
	return nil
}

func (t *walksTx) UpdateApplicationStatus(_ context.Context, id string, st walks.ApplicationStatus, at time.Time) error {
	a, ok := t.s.applications[id]
	if !ok {
		return walks.ErrNotFound
	}
	// Equivalente al índice único parcial: una sola accepted/completed por request.
	if st == walks.ApplicationAccepted || st == walks.ApplicationCompleted {
		for _, other := range t.s.applications {
			if other.ID == id || other.RequestID != a.RequestID {
				continue
			}
			if other.Status == walks.ApplicationAccepted || other.Status == walks.ApplicationCompleted {
				return walks.ErrDuplicate
			}
		}
	}
	a.Status = st
	a.UpdatedAt = at
	t.s.applications[id] = a
	return nil
}

func (t *walksTx) RejectOtherApplications(_ context.Context, requestID, acceptedID string, at time.Time) error {
	for id, a := range t.s.applications {
		if a.RequestID != requestID || id == acceptedID {
			continue
		}
		a.Status = walks.ApplicationRejected
		a.UpdatedAt = at
		t.s.applications[id] = a
	}
	return nil
}

func (t *walksTx) UpdateRequestStatus(_ context.Context, id string, st walks.RequestStatus, at time.Time) error {
	req, ok := t.s.requests[id]
	if !ok {
		return walks.ErrNotFound
	}
	req.Status = st
	req.UpdatedAt = at
	t.s.requests[id] = req
	return nil
}

func (t *walksTx) InsertRating(_ context.Context, rt walks.WalkRating) error {
	if _, ok := t.s.requests[rt.RequestID]; !ok {
		return walks.ErrNotFound
	}
	if _, ok := t.s.ratings[rt.RequestID]; ok {
		return walks.ErrDuplicate
	}
	t.s.ratings[rt.RequestID] = rt
	return nil
}

func (t *walksTx) AppendEvent(_ context.Context, e walks.WalkEvent) error {
	t.s.events = append(t.s.events, e)
	return nil
}

// request arma el WalkRequest con el OwnerID del perro. Requiere s.mu tomado.
func (s *Store) request(id string) (walks.WalkRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return walks.WalkRequest{}, walks.ErrNotFound
	}
	req.OwnerID = s.dogs[req.DogID].OwnerID
	return req, nil
}

// applicationsOf devuelve las postulaciones en orden de llegada. Requiere s.mu tomado.
func (s *Store) applicationsOf(requestID string) []walks.WalkApplication {
	out := make([]walks.WalkApplication, 0)
	for _, a := range s.applications {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func newerFirst(a, b walks.WalkRequest) bool {
	if a.RequestedAt.Equal(b.RequestedAt) {
		return a.ID > b.ID
	}
	return a.RequestedAt.After(b.RequestedAt)
}
