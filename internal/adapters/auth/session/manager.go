package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-walk-service/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("session manager not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrTokenInvalid  = errors.New("invalid or expired token")
)

const (
	DefaultTTL    = 24 * time.Hour
	DefaultIssuer = "dog-walk-service"
)

// Config del manejador de sesiones.
// Secret normalmente viene de SESSION_SECRET.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Manager emite y verifica tokens de sesión firmados (HS256).
// Implementa auth.AuthVerifier y auth.TokenIssuer.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewManager(cfg Config) (*Manager, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = DefaultIssuer
	}

	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(c auth.Claims) (string, time.Time, error) {
	if m == nil || len(m.secret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	if strings.TrimSpace(c.UserID) == "" {
		return "", time.Time{}, errors.New("session: user id required")
	}

	now := m.now()
	exp := now.Add(m.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username: c.Username,
		Role:     string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: sign token: %w", err)
	}
	return signed, exp, nil
}

func (m *Manager) Verify(_ context.Context, token string) (auth.Claims, error) {
	if m == nil || len(m.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var sc sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &sc, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	role, ok := auth.ParseRole(sc.Role)
	if !ok || strings.TrimSpace(sc.Subject) == "" {
		return auth.Claims{}, ErrTokenInvalid
	}

	return auth.Claims{
		UserID:   sc.Subject,
		Username: sc.Username,
		Role:     role,
	}, nil
}
