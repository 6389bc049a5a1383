package rolematrix

import (
	"context"
	"errors"
	"strings"

	"dog-walk-service/internal/ports/auth"
	"dog-walk-service/internal/ports/capabilities"
)

var (
	ErrCapabilityRequired = errors.New("capability required")
)

// Resolver decide capabilities a partir del rol del usuario.
// No consulta upstream: la matriz es fija y vive en memoria.
type Resolver struct {
	matrix map[auth.Role]map[capabilities.Capability]bool
}

// DefaultMatrix es la matriz de permisos del marketplace:
// - owner: gestiona perros, publica paseos, acepta postulaciones y califica.
// - walker: postula, completa paseos y ve su resumen.
func DefaultMatrix() map[auth.Role][]capabilities.Capability {
	return map[auth.Role][]capabilities.Capability{
		auth.RoleOwner: {
			capabilities.DogsManage,
			capabilities.WalksRequest,
			capabilities.WalksAccept,
			capabilities.WalksRate,
		},
		auth.RoleWalker: {
			capabilities.WalksApply,
			capabilities.WalksComplete,
			capabilities.WalksSummary,
		},
	}
}

func NewResolver(matrix map[auth.Role][]capabilities.Capability) *Resolver {
	if matrix == nil {
		matrix = DefaultMatrix()
	}

	m := make(map[auth.Role]map[capabilities.Capability]bool, len(matrix))
	for role, caps := range matrix {
		set := make(map[capabilities.Capability]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		m[role] = set
	}
	return &Resolver{matrix: m}
}

// HasFeature implementa capabilities.CapabilitiesResolver.
func (r *Resolver) HasFeature(_ context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if strings.TrimSpace(string(in.Capability)) == "" {
		return false, ErrCapabilityRequired
	}
	if strings.TrimSpace(in.UserID) == "" {
		return false, nil
	}
	return r.matrix[in.Role][in.Capability], nil
}
