package auth

import "strings"

// Role define el rol del usuario dentro del marketplace.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleWalker Role = "walker"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleWalker
}

// ParseRole normaliza y valida un rol recibido como texto.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Claims representa la identidad autenticada del request.
type Claims struct {
	UserID   string
	Username string
	Role     Role
}
