package walks

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"dog-walk-service/internal/domain/dogs"
	"dog-walk-service/internal/platform/logger"
	"dog-walk-service/internal/ports/capabilities"

	"github.com/google/uuid"
)

const DefaultRatePerWalk = 300

// DogLookup resuelve el dueño de un perro (implementado por dogs.Service).
type DogLookup interface {
	OwnerOf(ctx context.Context, dogID string) (string, error)
}

// TransitionRecorder recibe cada transición commiteada (métricas).
type TransitionRecorder interface {
	RecordTransition(transition string)
}

type Service struct {
	repo     Repository
	dogs     DogLookup
	caps     capabilities.CapabilitiesResolver
	log      logger.Logger
	recorder TransitionRecorder
	now      func() time.Time
	rate     int
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithRatePerWalk(rate int) Option {
	return func(s *Service) {
		if rate >= 0 {
			s.rate = rate
		}
	}
}

func WithTransitionRecorder(r TransitionRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(repo Repository, dogLookup DogLookup, caps capabilities.CapabilitiesResolver, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		dogs: dogLookup,
		caps: caps,
		log:  logger.Nop(),
		now:  time.Now,
		rate: DefaultRatePerWalk,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateRequestInput struct {
	DogID           string
	RequestedAt     time.Time
	DurationMinutes int
	Location        string
}

// CreateRequest publica un paseo open para un perro del caller.
func (s *Service) CreateRequest(ctx context.Context, c Caller, in CreateRequestInput) (WalkRequest, error) {
	if err := s.require(ctx, c, capabilities.WalksRequest); err != nil {
		return WalkRequest{}, err
	}

	dogID := strings.TrimSpace(in.DogID)
	location := strings.TrimSpace(in.Location)
	switch {
	case dogID == "":
		return WalkRequest{}, fmt.Errorf("%w: dog_id is required", ErrValidation)
	case in.RequestedAt.IsZero():
		return WalkRequest{}, fmt.Errorf("%w: requested time is required", ErrValidation)
	case in.DurationMinutes <= 0:
		return WalkRequest{}, fmt.Errorf("%w: duration must be a positive number of minutes", ErrValidation)
	case location == "":
		return WalkRequest{}, fmt.Errorf("%w: location is required", ErrValidation)
	}

	ownerID, err := s.dogs.OwnerOf(ctx, dogID)
	if err != nil {
		if errors.Is(err, dogs.ErrNotFound) {
			return WalkRequest{}, fmt.Errorf("%w: dog not found", ErrValidation)
		}
		return WalkRequest{}, s.translate("lookup dog", err, "")
	}
	if ownerID != c.UserID {
		return WalkRequest{}, fmt.Errorf("%w: dog does not belong to you", ErrValidation)
	}

	now := s.now()
	req := WalkRequest{
		ID:              uuid.NewString(),
		DogID:           dogID,
		OwnerID:         ownerID,
		RequestedAt:     in.RequestedAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Location:        location,
		Status:          RequestOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.repo.WithinTx(ctx, func(tx Tx) error {
		if err := tx.InsertRequest(ctx, req); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, s.event(req.ID, EventRequestCreated, c.UserID, "", now))
	})
	if err != nil {
		return WalkRequest{}, s.translate("create walk request", err, "walk request already exists")
	}

	s.committed("created", map[string]any{"request_id": req.ID, "owner_id": c.UserID})
	return req, nil
}

// Apply crea una postulación pending. El duplicado lo detecta la restricción
// de unicidad del storage.
func (s *Service) Apply(ctx context.Context, c Caller, requestID string) (WalkApplication, error) {
	if err := s.require(ctx, c, capabilities.WalksApply); err != nil {
		return WalkApplication{}, err
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return WalkApplication{}, fmt.Errorf("%w: request id is required", ErrValidation)
	}

	var app WalkApplication
	err := s.repo.WithinTx(ctx, func(tx Tx) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != RequestOpen {
			return fmt.Errorf("%w: walk request is %s, not open", ErrState, req.Status)
		}

		now := s.now()
		app = WalkApplication{
			ID:        uuid.NewString(),
			RequestID: req.ID,
			WalkerID:  c.UserID,
			Status:    ApplicationPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.InsertApplication(ctx, app); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, s.event(req.ID, EventApplicationSubmitted, c.UserID, app.ID, now))
	})
	if err != nil {
		return WalkApplication{}, s.translate("apply", err, "you have already applied for this walk")
	}

	s.committed("applied", map[string]any{"request_id": requestID, "application_id": app.ID, "walker_id": c.UserID})
	return app, nil
}

type AcceptResult struct {
	Request  WalkRequest
	Accepted WalkApplication
	Rejected []WalkApplication
}

// AcceptApplication acepta una postulación pending, rechaza a las hermanas y
// pasa el paseo a accepted. Todo en una transacción con lock de fila.
func (s *Service) AcceptApplication(ctx context.Context, c Caller, applicationID, requestID string) (AcceptResult, error) {
	if err := s.require(ctx, c, capabilities.WalksAccept); err != nil {
		return AcceptResult{}, err
	}
	applicationID = strings.TrimSpace(applicationID)
	requestID = strings.TrimSpace(requestID)
	if applicationID == "" || requestID == "" {
		return AcceptResult{}, fmt.Errorf("%w: application id and request id are required", ErrValidation)
	}

	var res AcceptResult
	err := s.repo.WithinTx(ctx, func(tx Tx) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.OwnerID != c.UserID {
			return fmt.Errorf("%w: only the dog's owner can accept applications", ErrAuth)
		}

		apps, err := tx.LockApplications(ctx, requestID)
		if err != nil {
			return err
		}
		plan, err := planAccept(req, apps, applicationID)
		if err != nil {
			return err
		}

		changes := map[string]ApplicationStatus{plan.accepted.ID: ApplicationAccepted}
		for _, a := range plan.rejected {
			changes[a.ID] = ApplicationRejected
		}
		next := req
		next.Status = RequestAccepted
		if err := CheckConsistency(next, withStatus(apps, changes)); err != nil {
			return err
		}

		now := s.now()
		if err := tx.UpdateApplicationStatus(ctx, plan.accepted.ID, ApplicationAccepted, now); err != nil {
			return err
		}
		if err := tx.RejectOtherApplications(ctx, requestID, plan.accepted.ID, now); err != nil {
			return err
		}
		if err := tx.UpdateRequestStatus(ctx, requestID, RequestAccepted, now); err != nil {
			return err
		}

		if err := tx.AppendEvent(ctx, s.event(requestID, EventApplicationAccepted, c.UserID, plan.accepted.ID, now)); err != nil {
			return err
		}
		for _, a := range plan.rejected {
			if err := tx.AppendEvent(ctx, s.event(requestID, EventApplicationRejected, c.UserID, a.ID, now)); err != nil {
				return err
			}
		}

		res.Request = next
		res.Request.UpdatedAt = now
		res.Accepted = plan.accepted
		res.Accepted.Status = ApplicationAccepted
		res.Accepted.UpdatedAt = now
		for _, a := range plan.rejected {
			a.Status = ApplicationRejected
			a.UpdatedAt = now
			res.Rejected = append(res.Rejected, a)
		}
		return nil
	})
	if err != nil {
		return AcceptResult{}, s.translate("accept application", err, "walk request already has an assigned walker")
	}

	s.committed("accepted", map[string]any{
		"request_id":     requestID,
		"application_id": applicationID,
		"rejected":       len(res.Rejected),
	})
	return res, nil
}

type CompleteResult struct {
	Request     WalkRequest
	Application WalkApplication
}

// CompleteWalk lo invoca el walker aceptado. El estado se valida antes que la
// identidad: completar un paseo open es StateError para cualquiera.
func (s *Service) CompleteWalk(ctx context.Context, c Caller, requestID string) (CompleteResult, error) {
	if err := s.require(ctx, c, capabilities.WalksComplete); err != nil {
		return CompleteResult{}, err
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return CompleteResult{}, fmt.Errorf("%w: request id is required", ErrValidation)
	}

	var res CompleteResult
	err := s.repo.WithinTx(ctx, func(tx Tx) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		apps, err := tx.LockApplications(ctx, requestID)
		if err != nil {
			return err
		}
		app, err := planComplete(req, apps, c.UserID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := tx.UpdateApplicationStatus(ctx, app.ID, ApplicationCompleted, now); err != nil {
			return err
		}
		if err := tx.UpdateRequestStatus(ctx, requestID, RequestCompleted, now); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, s.event(requestID, EventWalkCompleted, c.UserID, app.ID, now)); err != nil {
			return err
		}

		res.Request = req
		res.Request.Status = RequestCompleted
		res.Request.UpdatedAt = now
		res.Application = app
		res.Application.Status = ApplicationCompleted
		res.Application.UpdatedAt = now
		return nil
	})
	if err != nil {
		return CompleteResult{}, s.translate("complete walk", err, "walk already completed")
	}

	s.committed("completed", map[string]any{"request_id": requestID, "walker_id": c.UserID})
	return res, nil
}

type RateInput struct {
	RequestID string
	// Opcional: si viene, debe coincidir con el walker que completó el paseo.
	WalkerID string
	Rating   int
	Comments string
}

// RateWalker registra la calificación del owner. Un segundo intento sobre el
// mismo paseo devuelve ErrConflict.
func (s *Service) RateWalker(ctx context.Context, c Caller, in RateInput) (WalkRating, error) {
	if err := s.require(ctx, c, capabilities.WalksRate); err != nil {
		return WalkRating{}, err
	}
	requestID := strings.TrimSpace(in.RequestID)
	if requestID == "" {
		return WalkRating{}, fmt.Errorf("%w: request id is required", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return WalkRating{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	var rating WalkRating
	err := s.repo.WithinTx(ctx, func(tx Tx) error {
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.OwnerID != c.UserID {
			return fmt.Errorf("%w: only the dog's owner can rate this walk", ErrAuth)
		}
		if req.Status != RequestCompleted {
			return fmt.Errorf("%w: walk request is %s, not completed", ErrState, req.Status)
		}

		apps, err := tx.LockApplications(ctx, requestID)
		if err != nil {
			return err
		}
		done, ok := completedApplication(apps)
		if !ok {
			return fmt.Errorf("%w: completed walk request has no completed application", ErrState)
		}
		if w := strings.TrimSpace(in.WalkerID); w != "" && w != done.WalkerID {
			return fmt.Errorf("%w: walker did not complete this walk", ErrValidation)
		}

		now := s.now()
		rating = WalkRating{
			ID:        uuid.NewString(),
			RequestID: requestID,
			WalkerID:  done.WalkerID,
			OwnerID:   c.UserID,
			Rating:    in.Rating,
			Comments:  strings.TrimSpace(in.Comments),
			CreatedAt: now,
		}
		if err := tx.InsertRating(ctx, rating); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, s.event(requestID, EventWalkerRated, c.UserID, done.ID, now))
	})
	if err != nil {
		return WalkRating{}, s.translate("rate walker", err, "this walk has already been rated")
	}

	s.committed("rated", map[string]any{"request_id": requestID, "walker_id": rating.WalkerID, "rating": rating.Rating})
	return rating, nil
}

// ListAvailable devuelve una secuencia lazy de paseos para el walker. Los
// errores (incluida la autorización) llegan como segundo valor.
func (s *Service) ListAvailable(ctx context.Context, c Caller) iter.Seq2[AvailableRequest, error] {
	if err := s.require(ctx, c, capabilities.WalksApply); err != nil {
		return func(yield func(AvailableRequest, error) bool) {
			yield(AvailableRequest{}, err)
		}
	}

	return func(yield func(AvailableRequest, error) bool) {
		for item, err := range s.repo.ListAvailable(ctx, c.UserID) {
			if err != nil {
				yield(AvailableRequest{}, s.translate("list available", err, ""))
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// ListMine devuelve los paseos del owner con sus postulantes.
func (s *Service) ListMine(ctx context.Context, c Caller) ([]OwnerRequestView, error) {
	if err := s.require(ctx, c, capabilities.WalksRequest); err != nil {
		return nil, err
	}
	out, err := s.repo.ListByOwner(ctx, c.UserID)
	if err != nil {
		return nil, s.translate("list owner requests", err, "")
	}
	return out, nil
}

func (s *Service) Summary(ctx context.Context, c Caller) (Summary, error) {
	if err := s.require(ctx, c, capabilities.WalksSummary); err != nil {
		return Summary{}, err
	}

	completed, err := s.repo.CountApplications(ctx, c.UserID, ApplicationCompleted)
	if err != nil {
		return Summary{}, s.translate("summary", err, "")
	}
	pending, err := s.repo.CountApplications(ctx, c.UserID, ApplicationPending)
	if err != nil {
		return Summary{}, s.translate("summary", err, "")
	}

	return Summary{
		Completed:     completed,
		Pending:       pending,
		TotalEarnings: completed * s.rate,
	}, nil
}

// Timeline devuelve los eventos del paseo. Lo ven el dueño y los postulantes.
func (s *Service) Timeline(ctx context.Context, c Caller, requestID string) ([]WalkEvent, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrAuth)
	}
	requestID = strings.TrimSpace(requestID)

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, s.translate("get walk request", err, "")
	}
	if req.OwnerID != c.UserID {
		apps, err := s.repo.ListApplications(ctx, requestID)
		if err != nil {
			return nil, s.translate("list applications", err, "")
		}
		allowed := false
		for _, a := range apps {
			if a.WalkerID == c.UserID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("%w: only the owner or applicants can see this timeline", ErrAuth)
		}
	}

	events, err := s.repo.ListEvents(ctx, requestID)
	if err != nil {
		return nil, s.translate("list events", err, "")
	}
	return events, nil
}

func (s *Service) require(ctx context.Context, c Caller, capability capabilities.Capability) error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: authentication required", ErrAuth)
	}
	ok, err := s.caps.HasFeature(ctx, capabilities.CapabilityCheck{
		UserID:     c.UserID,
		Role:       c.Role,
		Capability: capability,
	})
	if err != nil {
		return s.translate("resolve capability", err, "")
	}
	if !ok {
		return fmt.Errorf("%w: role %q cannot %s", ErrAuth, c.Role, capability)
	}
	return nil
}

// translate deja pasar los errores de dominio, convierte ErrDuplicate en
// ErrConflict y todo lo demás en ErrStorage (logueado, sin detalle al cliente).
func (s *Service) translate(op string, err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, conflictMsg)
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrAuth),
		errors.Is(err, ErrState),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStorage):
		return err
	default:
		s.log.Error(op+" failed", map[string]any{"err": err})
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
}

func (s *Service) event(requestID string, t EventType, actorID, applicationID string, at time.Time) WalkEvent {
	return WalkEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		Type:          t,
		ActorID:       actorID,
		ApplicationID: applicationID,
		OccurredAt:    at,
	}
}

func (s *Service) committed(transition string, fields map[string]any) {
	fields["transition"] = transition
	s.log.Info("walk transition committed", fields)
	if s.recorder != nil {
		s.recorder.RecordTransition(transition)
	}
}
