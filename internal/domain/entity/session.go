package entity

import "time"

// Session prueba emitida por el servidor de que un usuario se autenticó. Nunca se muta:
// se crea en login y se elimina en logout o al expirar.
type Session struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired indica si la sesión ya no es válida en el instante now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
