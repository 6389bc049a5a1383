package dogs

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"dog-walk-service/internal/platform/logger"
	"dog-walk-service/internal/ports/auth"
	"dog-walk-service/internal/ports/capabilities"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// ImageSource entrega una URL de foto para perros nuevos.
type ImageSource interface {
	RandomImage(ctx context.Context) (string, error)
}

type Service struct {
	repo   Repository
	caps   capabilities.CapabilitiesResolver
	images ImageSource
	log    logger.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithImageSource habilita la foto remota; sin ella se usa solo el fallback.
func WithImageSource(src ImageSource) Option {
	return func(s *Service) { s.images = src }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(repo Repository, caps capabilities.CapabilitiesResolver, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		caps: caps,
		log:  logger.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	Name string
	Size string
}

func (s *Service) Create(ctx context.Context, owner auth.Claims, in CreateInput) (Dog, error) {
	if err := s.authorize(ctx, owner); err != nil {
		return Dog{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Size) == "" {
		return Dog{}, fmt.Errorf("%w: name and size are required", ErrInvalidInput)
	}
	size := Size(strings.ToLower(strings.TrimSpace(in.Size)))
	if !size.Valid() {
		return Dog{}, fmt.Errorf("%w: size must be small, medium or large", ErrInvalidInput)
	}

	d := Dog{
		ID:        uuid.NewString(),
		OwnerID:   owner.UserID,
		Name:      name,
		Size:      size,
		ImageURL:  s.imageFor(ctx),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}

	s.log.Info("dog created", map[string]any{"dog_id": d.ID, "owner_id": d.OwnerID})
	return d, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner auth.Claims) ([]Dog, error) {
	if err := s.authorize(ctx, owner); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, owner.UserID)
}

func (s *Service) Delete(ctx context.Context, owner auth.Claims, dogID string) error {
	if err := s.authorize(ctx, owner); err != nil {
		return err
	}
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, dogID, owner.UserID); err != nil {
		return err
	}

	s.log.Info("dog deleted", map[string]any{"dog_id": dogID, "owner_id": owner.UserID})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// OwnerOf expone el owner de un perro para que walks valide ownership
// sin importar el repo de dogs.
func (s *Service) OwnerOf(ctx context.Context, dogID string) (string, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return "", err
	}
	return d.OwnerID, nil
}

func (s *Service) authorize(ctx context.Context, c auth.Claims) error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrForbidden
	}
	ok, err := s.caps.HasFeature(ctx, capabilities.CapabilityCheck{
		UserID:     c.UserID,
		Role:       c.Role,
		Capability: capabilities.DogsManage,
	})
	if err != nil {
		return fmt.Errorf("resolve capability: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *Service) imageFor(ctx context.Context) string {
	if s.images != nil {
		img, err := s.images.RandomImage(ctx)
		if err == nil && img != "" {
			return img
		}
		s.log.Warn("dog image lookup failed, using fallback", map[string]any{"err": err})
	}
	return FallbackImageURL(rand.IntN(1000))
}

func FallbackImageURL(n int) string {
	return fmt.Sprintf("https://loremflickr.com/80/80/dog?random=%d", n)
}
