package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"dog-walk-service/internal/platform/logger"
	"dog-walk-service/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	log    logger.Logger
	now    func() time.Time
	cost   int
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBcryptCost permite bajar el costo en tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func NewService(repo Repository, issuer auth.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		issuer: issuer,
		log:    logger.Nop(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return User{}, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	role, ok := auth.ParseRole(in.Role)
	if !ok {
		return User{}, fmt.Errorf("%w: role must be owner or walker", ErrInvalidInput)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return User{}, ErrConflict
		}
		return User{}, err
	}

	s.log.Info("user signed up", map[string]any{"user_id": u.ID, "role": string(u.Role)})
	return u, nil
}

// Session es el resultado de un login exitoso.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// Login acepta username o email. Cualquier falla de credenciales devuelve
// ErrInvalidCredentials sin distinguir la causa.
func (s *Service) Login(ctx context.Context, identifier, password string) (Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username/email and password are required", ErrInvalidInput)
	}

	u, err := s.repo.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, exp, err := s.issuer.Issue(u.Claims())
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	s.log.Info("user logged in", map[string]any{"user_id": u.ID})
	return Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// ResetPassword reemplaza el hash del usuario. ErrNotFound si no existe.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" || newPassword == "" {
		return fmt.Errorf("%w: missing fields", ErrInvalidInput)
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, username, hash, s.now()); err != nil {
		return err
	}

	s.log.Info("password reset", map[string]any{"username": username})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
