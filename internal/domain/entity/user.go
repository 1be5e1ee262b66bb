package entity

import (
	"fmt"
	"strings"
	"time"
)

// Role rol de autorización del usuario.
type Role string

// Roles válidos.
const (
	RoleAdmin  Role = "ROLE_ADMIN"
	RoleUser   Role = "ROLE_USER"
	RoleViewer Role = "ROLE_VIEWER"
)

// ParseRole acepta "ROLE_ADMIN" o "ADMIN".
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "ROLE_") {
		s = "ROLE_" + s
	}
	switch r := Role(s); r {
	case RoleAdmin, RoleUser, RoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("rol inválido: %s", s)
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Nombre       string
	Apellido     string
	Roles        []Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole indica si el usuario tiene alguno de los roles dados.
func (u *User) HasRole(roles ...Role) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RoleNames devuelve los roles como strings (para el claim JWT).
func (u *User) RoleNames() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}
