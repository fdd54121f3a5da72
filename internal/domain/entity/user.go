package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema (miembro de un departamento).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca se devuelve en respuestas
	Role         string // admin, user
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si el rol pertenece al catálogo.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Identity es la identidad resuelta del llamador a partir de una sesión válida.
type Identity struct {
	UserID     string
	Username   string
	Role       string
	Department string
	SessionID  string
	ExpiresAt  time.Time
}

// IsAdmin indica si la identidad tiene rol admin.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
